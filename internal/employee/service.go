// Package employee は社員一覧・詳細のクライアント側サービスを提供する。
package employee

import (
	"context"
	"net/url"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/state"
)

const basePath = "/employees"

// APIClient はServiceが必要とするAPIクライアントのインターフェース。
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Pagination は直近の一覧取得のページ情報。
type Pagination struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// Service は社員の一覧・選択中の社員・ページ情報を保持する。
type Service struct {
	client APIClient

	Employees  *state.Signal[[]model.Employee]
	Selected   *state.Signal[*model.Employee]
	Pagination *state.Signal[Pagination]
	Status     *state.Status
}

// NewService はServiceを生成する。
func NewService(client APIClient) *Service {
	return &Service{
		client:     client,
		Employees:  state.NewSignalWithClone([]model.Employee{}, state.CloneSlice[model.Employee]),
		Selected:   state.NewSignalWithClone[*model.Employee](nil, cloneEmployee),
		Pagination: state.NewSignal(Pagination{PageNumber: 1, PageSize: 10}),
		Status:     state.NewStatus(),
	}
}

func cloneEmployee(e *model.Employee) *model.Employee {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// List は社員一覧を取得する。レスポンスのitems（無ければdata）で一覧を置き換え、
// 欠けているページ情報は補う。
func (s *Service) List(ctx context.Context, params model.PaginationParams) (*model.PaginatedResponse[model.Employee], error) {
	s.Status.Begin()

	var resp model.PaginatedResponse[model.Employee]
	if err := s.client.Get(ctx, basePath, params.Values(), &resp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load employees"))
		return nil, err
	}

	s.Status.Done()
	records := resp.Records()
	if records == nil {
		records = []model.Employee{}
	}
	s.Employees.Set(state.CloneSlice(records))
	s.Pagination.Set(Pagination{
		PageNumber: orDefault(resp.PageNumber, 1),
		PageSize:   orDefault(resp.PageSize, 10),
		TotalCount: orDefault(resp.TotalCount, len(records)),
		TotalPages: orDefault(resp.TotalPages, 1),
	})
	return &resp, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Get は社員を取得して選択中にする。
func (s *Service) Get(ctx context.Context, id string) (*model.Employee, error) {
	s.Status.Begin()

	var emp model.Employee
	if err := s.client.Get(ctx, basePath+"/"+url.PathEscape(id), nil, &emp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load employee"))
		return nil, err
	}

	s.Status.Done()
	s.Selected.Set(&emp)
	return cloneEmployee(&emp), nil
}

// Create は社員を作成して一覧の末尾に追加する。
func (s *Service) Create(ctx context.Context, draft model.Employee) (*model.Employee, error) {
	s.Status.Begin()

	var created model.Employee
	if err := s.client.Post(ctx, basePath, draft, &created); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to create employee"))
		return nil, err
	}

	s.Status.Done()
	s.Employees.Update(func(cur []model.Employee) []model.Employee {
		return append(cur, created)
	})
	return &created, nil
}

// Update は社員を部分更新し、一覧と選択中の同じidのレコードを返された内容で置き換える。
func (s *Service) Update(ctx context.Context, id string, patch map[string]any) (*model.Employee, error) {
	s.Status.Begin()

	var updated model.Employee
	if err := s.client.Put(ctx, basePath+"/"+url.PathEscape(id), patch, &updated); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to update employee"))
		return nil, err
	}

	s.Status.Done()
	s.Employees.Update(func(cur []model.Employee) []model.Employee {
		for i := range cur {
			if cur[i].ID == id {
				cur[i] = updated
			}
		}
		return cur
	})
	if sel := s.Selected.Get(); sel != nil && sel.ID == id {
		s.Selected.Set(&updated)
	}
	return cloneEmployee(&updated), nil
}

// Delete は社員を削除し、一覧から取り除く。選択中なら選択を解除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	s.Status.Begin()

	if err := s.client.Delete(ctx, basePath+"/"+url.PathEscape(id), nil); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to delete employee"))
		return err
	}

	s.Status.Done()
	s.Employees.Update(func(cur []model.Employee) []model.Employee {
		kept := cur[:0]
		for _, e := range cur {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		return kept
	})
	if sel := s.Selected.Get(); sel != nil && sel.ID == id {
		s.Selected.Set(nil)
	}
	return nil
}

// ClearSelection は選択を解除する。
func (s *Service) ClearSelection() {
	s.Selected.Set(nil)
}

// ClearError はエラーメッセージを消す。
func (s *Service) ClearError() {
	s.Status.ClearError()
}

// Count は一覧の件数を返す。
func (s *Service) Count() int {
	return len(s.Employees.Get())
}

// HasEmployees は一覧が空でないかを返す。
func (s *Service) HasEmployees() bool {
	return s.Count() > 0
}
