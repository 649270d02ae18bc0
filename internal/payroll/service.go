// Package payroll は給与明細と給与体系のクライアント側サービスを提供する。
package payroll

import (
	"context"
	"net/url"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/state"
)

const basePath = "/payroll"

// APIClient はServiceが必要とするAPIクライアントのインターフェース。
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// Service は給与明細一覧と表示中の給与体系を保持する。
type Service struct {
	client APIClient

	Slips     *state.Signal[[]model.PayrollSlip]
	Structure *state.Signal[*model.SalaryStructure]
	Status    *state.Status
}

// NewService はServiceを生成する。
func NewService(client APIClient) *Service {
	return &Service{
		client:    client,
		Slips:     state.NewSignalWithClone([]model.PayrollSlip{}, state.CloneSlice[model.PayrollSlip]),
		Structure: state.NewSignalWithClone[*model.SalaryStructure](nil, cloneStructure),
		Status:    state.NewStatus(),
	}
}

// ListSlips は社員の給与明細一覧を取得する。
func (s *Service) ListSlips(ctx context.Context, employeeID string, params model.PaginationParams) (*model.PaginatedResponse[model.PayrollSlip], error) {
	s.Status.Begin()

	q := params.Values()
	q.Set("employeeId", employeeID)

	var resp model.PaginatedResponse[model.PayrollSlip]
	if err := s.client.Get(ctx, basePath+"/slips", q, &resp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load payroll slips"))
		return nil, err
	}

	s.Status.Done()
	s.Slips.Set(append([]model.PayrollSlip{}, resp.Records()...))
	return &resp, nil
}

// SalaryStructure は社員の給与体系を取得する。
func (s *Service) SalaryStructure(ctx context.Context, employeeID string) (*model.SalaryStructure, error) {
	s.Status.Begin()

	var st model.SalaryStructure
	if err := s.client.Get(ctx, structurePath(employeeID), nil, &st); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load salary structure"))
		return nil, err
	}

	s.Status.Done()
	s.Structure.Set(&st)
	return cloneStructure(&st), nil
}

// UpdateSalaryStructure は給与体系を部分更新し、返された内容で表示中の給与体系を置き換える。
func (s *Service) UpdateSalaryStructure(ctx context.Context, employeeID string, patch map[string]any) (*model.SalaryStructure, error) {
	s.Status.Begin()

	var st model.SalaryStructure
	if err := s.client.Put(ctx, structurePath(employeeID), patch, &st); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to update salary structure"))
		return nil, err
	}

	s.Status.Done()
	s.Structure.Set(&st)
	return cloneStructure(&st), nil
}

func structurePath(employeeID string) string {
	return basePath + "/salary-structure/" + url.PathEscape(employeeID)
}

func cloneStructure(st *model.SalaryStructure) *model.SalaryStructure {
	if st == nil {
		return nil
	}
	c := *st
	c.Components = append([]model.SalaryComponent(nil), st.Components...)
	return &c
}
