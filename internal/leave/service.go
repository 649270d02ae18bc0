// Package leave は休暇申請と休暇残日数のクライアント側サービスを提供する。
package leave

import (
	"context"
	"net/url"
	"strconv"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/state"
)

const basePath = "/leave"

// APIClient はServiceが必要とするAPIクライアントのインターフェース。
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// Service は休暇申請一覧と残日数を保持する。
type Service struct {
	client APIClient

	Requests *state.Signal[[]model.LeaveRequest]
	Balances *state.Signal[[]model.LeaveBalance]
	Status   *state.Status
}

// NewService はServiceを生成する。
func NewService(client APIClient) *Service {
	return &Service{
		client:   client,
		Requests: state.NewSignalWithClone([]model.LeaveRequest{}, state.CloneSlice[model.LeaveRequest]),
		Balances: state.NewSignalWithClone([]model.LeaveBalance{}, state.CloneSlice[model.LeaveBalance]),
		Status:   state.NewStatus(),
	}
}

// ListRequests は社員の休暇申請一覧を取得する。
func (s *Service) ListRequests(ctx context.Context, employeeID string, params model.PaginationParams) (*model.PaginatedResponse[model.LeaveRequest], error) {
	s.Status.Begin()

	q := params.Values()
	q.Set("employeeId", employeeID)

	var resp model.PaginatedResponse[model.LeaveRequest]
	if err := s.client.Get(ctx, basePath+"/requests", q, &resp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load leave requests"))
		return nil, err
	}

	s.Status.Done()
	s.Requests.Set(append([]model.LeaveRequest{}, resp.Records()...))
	return &resp, nil
}

// LoadBalances は社員の指定年の休暇残日数を取得する。
func (s *Service) LoadBalances(ctx context.Context, employeeID string, year int) ([]model.LeaveBalance, error) {
	s.Status.Begin()

	q := url.Values{}
	q.Set("employeeId", employeeID)
	q.Set("year", strconv.Itoa(year))

	var balances []model.LeaveBalance
	if err := s.client.Get(ctx, basePath+"/balances", q, &balances); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load leave balance"))
		return nil, err
	}

	s.Status.Done()
	s.Balances.Set(append([]model.LeaveBalance{}, balances...))
	return balances, nil
}

// RequestLeave は休暇を申請し、一覧の末尾に追加する。
func (s *Service) RequestLeave(ctx context.Context, req model.LeaveRequest) (*model.LeaveRequest, error) {
	s.Status.Begin()

	var created model.LeaveRequest
	if err := s.client.Post(ctx, basePath+"/requests", req, &created); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to request leave"))
		return nil, err
	}

	s.Status.Done()
	s.Requests.Update(func(cur []model.LeaveRequest) []model.LeaveRequest {
		return append(cur, created)
	})
	return &created, nil
}

// Approve は休暇申請を承認する。
func (s *Service) Approve(ctx context.Context, id, remarks string) (*model.LeaveRequest, error) {
	body := struct {
		Remarks string `json:"remarks,omitempty"`
	}{Remarks: remarks}
	return s.decide(ctx, id, "approve", body, "Failed to approve leave request")
}

// Reject は休暇申請を却下する。
func (s *Service) Reject(ctx context.Context, id, reason string) (*model.LeaveRequest, error) {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	return s.decide(ctx, id, "reject", body, "Failed to reject leave request")
}

// decide は承認・却下を送信し、一覧の同じidの申請を返された内容で置き換える。
func (s *Service) decide(ctx context.Context, id, action string, body any, fallback string) (*model.LeaveRequest, error) {
	s.Status.Begin()

	var updated model.LeaveRequest
	path := basePath + "/requests/" + url.PathEscape(id) + "/" + action
	if err := s.client.Put(ctx, path, body, &updated); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, fallback))
		return nil, err
	}

	s.Status.Done()
	s.Requests.Update(func(cur []model.LeaveRequest) []model.LeaveRequest {
		for i := range cur {
			if cur[i].ID == id {
				cur[i] = updated
			}
		}
		return cur
	})
	return &updated, nil
}
