package employee

import (
	"sort"
	"strings"

	"github.com/hitoshi/hrms/internal/model"
)

// Query は取得済みの一覧に対する絞り込み・並べ替え・ページングの条件。
type Query struct {
	Search         string
	Department     string
	Status         model.EmployeeStatus
	EmploymentType model.EmploymentType
	SortBy         string // employeeId, firstName, lastName, email, department, designation, dateOfJoining, salary
	SortDirection  model.SortDirection
	PageNumber     int
	PageSize       int
}

// Filter は検索語と各フィルタに一致する社員を返す。
// 検索語は名・姓・メールアドレス・社員IDに対する大文字小文字を区別しない部分一致。
func Filter(employees []model.Employee, q Query) []model.Employee {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]model.Employee, 0, len(employees))
	for _, e := range employees {
		if term != "" && !matches(e, term) {
			continue
		}
		if q.Department != "" && e.Department != q.Department {
			continue
		}
		if q.Status != "" && e.EmploymentStatus != q.Status {
			continue
		}
		if q.EmploymentType != "" && e.EmploymentType != q.EmploymentType {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matches(e model.Employee, term string) bool {
	for _, field := range []string{e.FirstName, e.LastName, e.Email, e.EmployeeID} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Sort はSortByのフィールドで安定ソートする。未知のフィールドは並びを変えない。
func Sort(employees []model.Employee, field string, dir model.SortDirection) {
	less := lessFunc(field)
	if less == nil {
		return
	}
	sort.SliceStable(employees, func(i, j int) bool {
		if dir == model.SortDesc {
			return less(employees[j], employees[i])
		}
		return less(employees[i], employees[j])
	})
}

func lessFunc(field string) func(a, b model.Employee) bool {
	byString := func(get func(model.Employee) string) func(a, b model.Employee) bool {
		return func(a, b model.Employee) bool { return get(a) < get(b) }
	}
	switch field {
	case "employeeId":
		return byString(func(e model.Employee) string { return e.EmployeeID })
	case "firstName":
		return byString(func(e model.Employee) string { return e.FirstName })
	case "lastName":
		return byString(func(e model.Employee) string { return e.LastName })
	case "email":
		return byString(func(e model.Employee) string { return e.Email })
	case "department":
		return byString(func(e model.Employee) string { return e.Department })
	case "designation":
		return byString(func(e model.Employee) string { return e.Designation })
	case "dateOfJoining":
		return byString(func(e model.Employee) string { return e.DateOfJoining })
	case "salary":
		return func(a, b model.Employee) bool { return a.Salary < b.Salary }
	}
	return nil
}

// Apply は絞り込み・並べ替えの後、指定ページを切り出したエンベロープを返す。
// ページ番号が範囲外の場合は空のページになる。
func Apply(employees []model.Employee, q Query) model.PaginatedResponse[model.Employee] {
	filtered := Filter(employees, q)
	if q.SortBy != "" {
		Sort(filtered, q.SortBy, q.SortDirection)
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	pageNumber := q.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}

	start := (pageNumber - 1) * pageSize
	var page []model.Employee
	if start < len(filtered) {
		end := start + pageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		page = filtered[start:end]
	}
	return model.NewPage(page, pageNumber, pageSize, len(filtered))
}
