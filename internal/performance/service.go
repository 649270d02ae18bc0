// Package performance は人事評価と研修のクライアント側サービスを提供する。
package performance

import (
	"context"
	"net/url"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/state"
)

const basePath = "/performance"

// APIClient はServiceが必要とするAPIクライアントのインターフェース。
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Service は評価一覧、表示中の評価、研修一覧を保持する。
type Service struct {
	client APIClient

	Appraisals *state.Signal[[]model.Appraisal]
	Selected   *state.Signal[*model.Appraisal]
	Trainings  *state.Signal[[]model.TrainingEnrollment]
	Status     *state.Status
}

// NewService はServiceを生成する。
func NewService(client APIClient) *Service {
	return &Service{
		client:     client,
		Appraisals: state.NewSignalWithClone([]model.Appraisal{}, state.CloneSlice[model.Appraisal]),
		Selected: state.NewSignalWithClone[*model.Appraisal](nil, func(a *model.Appraisal) *model.Appraisal {
			if a == nil {
				return nil
			}
			c := *a
			return &c
		}),
		Trainings: state.NewSignalWithClone([]model.TrainingEnrollment{}, state.CloneSlice[model.TrainingEnrollment]),
		Status:    state.NewStatus(),
	}
}

// ListAppraisals は社員の評価一覧を取得する。
func (s *Service) ListAppraisals(ctx context.Context, employeeID string, params model.PaginationParams) (*model.PaginatedResponse[model.Appraisal], error) {
	s.Status.Begin()

	q := params.Values()
	q.Set("employeeId", employeeID)

	var resp model.PaginatedResponse[model.Appraisal]
	if err := s.client.Get(ctx, basePath+"/appraisals", q, &resp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load appraisals"))
		return nil, err
	}

	s.Status.Done()
	s.Appraisals.Set(append([]model.Appraisal{}, resp.Records()...))
	return &resp, nil
}

// Appraisal はidで評価を取得し、表示中の評価に設定する。
func (s *Service) Appraisal(ctx context.Context, id string) (*model.Appraisal, error) {
	s.Status.Begin()

	var a model.Appraisal
	if err := s.client.Get(ctx, basePath+"/appraisals/"+url.PathEscape(id), nil, &a); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load appraisal"))
		return nil, err
	}

	s.Status.Done()
	s.Selected.Set(&a)
	return s.Selected.Get(), nil
}

// CreateAppraisal は評価を作成し、一覧の末尾に追加する。
func (s *Service) CreateAppraisal(ctx context.Context, a model.Appraisal) (*model.Appraisal, error) {
	s.Status.Begin()

	var created model.Appraisal
	if err := s.client.Post(ctx, basePath+"/appraisals", a, &created); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to create appraisal"))
		return nil, err
	}

	s.Status.Done()
	s.Appraisals.Update(func(cur []model.Appraisal) []model.Appraisal {
		return append(cur, created)
	})
	return &created, nil
}

// ListTrainings は社員の研修受講一覧を取得する。
func (s *Service) ListTrainings(ctx context.Context, employeeID string, params model.PaginationParams) (*model.PaginatedResponse[model.TrainingEnrollment], error) {
	s.Status.Begin()

	q := params.Values()
	q.Set("employeeId", employeeID)

	var resp model.PaginatedResponse[model.TrainingEnrollment]
	if err := s.client.Get(ctx, basePath+"/trainings", q, &resp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load trainings"))
		return nil, err
	}

	s.Status.Done()
	s.Trainings.Set(append([]model.TrainingEnrollment{}, resp.Records()...))
	return &resp, nil
}
