package mockapi

import (
	"github.com/hitoshi/hrms/internal/model"
)

// Directory は社員フィクスチャを保持する読み取り専用のディレクトリ。
type Directory struct {
	employees []model.Employee
}

// NewDirectory はDirectoryを生成する。
func NewDirectory(employees []model.Employee) *Directory {
	return &Directory{employees: append([]model.Employee(nil), employees...)}
}

// List は全件を1ページのエンベロープで返す。
func (d *Directory) List() model.PaginatedResponse[model.Employee] {
	items := append([]model.Employee(nil), d.employees...)
	return model.NewPage(items, 1, len(items), len(items))
}

// Get はidまたはemployeeIdが一致する社員を返す。
func (d *Directory) Get(id string) (model.Employee, error) {
	for _, e := range d.employees {
		if e.ID == id || e.EmployeeID == id {
			return e, nil
		}
	}
	return model.Employee{}, model.NewEmployeeNotFoundError()
}

// Update は送信されたフィールドにパスのidを上書きしてそのまま返す。保存はしない。
func (d *Directory) Update(id string, fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["id"] = id
	return out
}
