// Package attendance は勤怠記録と月次集計のクライアント側サービスを提供する。
package attendance

import (
	"context"
	"net/url"
	"time"

	"github.com/hitoshi/hrms/internal/apiclient"
	"github.com/hitoshi/hrms/internal/model"
	"github.com/hitoshi/hrms/internal/state"
)

const basePath = "/attendance"

// isoLayout はサーバーが受け付けるミリ秒付きUTCの日時形式。
const isoLayout = "2006-01-02T15:04:05.000Z"

// APIClient はServiceが必要とするAPIクライアントのインターフェース。
type APIClient interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Service は勤怠記録一覧と直近の集計を保持する。
type Service struct {
	client APIClient

	Records *state.Signal[[]model.AttendanceRecord]
	Latest  *state.Signal[*model.AttendanceSummary]
	Status  *state.Status
}

// NewService はServiceを生成する。
func NewService(client APIClient) *Service {
	return &Service{
		client:  client,
		Records: state.NewSignalWithClone([]model.AttendanceRecord{}, state.CloneSlice[model.AttendanceRecord]),
		Latest:  state.NewSignalWithClone[*model.AttendanceSummary](nil, cloneSummary),
		Status:  state.NewStatus(),
	}
}

// List は社員の勤怠記録一覧を取得する。
func (s *Service) List(ctx context.Context, employeeID string, params model.PaginationParams) (*model.PaginatedResponse[model.AttendanceRecord], error) {
	s.Status.Begin()

	q := params.Values()
	q.Set("employeeId", employeeID)

	var resp model.PaginatedResponse[model.AttendanceRecord]
	if err := s.client.Get(ctx, basePath, q, &resp); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load attendance records"))
		return nil, err
	}

	s.Status.Done()
	s.Records.Set(append([]model.AttendanceRecord{}, resp.Records()...))
	return &resp, nil
}

// Summary は指定月(1〜12)の勤怠集計を取得する。
// 期間は月初0時(UTC)から月末の最終ミリ秒まで。
func (s *Service) Summary(ctx context.Context, employeeID string, month time.Month, year int) (*model.AttendanceSummary, error) {
	s.Status.Begin()

	start, end := MonthRange(month, year)
	q := url.Values{}
	q.Set("employeeId", employeeID)
	q.Set("startDate", start.Format(isoLayout))
	q.Set("endDate", end.Format(isoLayout))

	var sum model.AttendanceSummary
	if err := s.client.Get(ctx, basePath+"/summary", q, &sum); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to load attendance summary"))
		return nil, err
	}

	s.Status.Done()
	s.Latest.Set(&sum)
	return cloneSummary(&sum), nil
}

// Mark は勤怠を登録し、一覧の末尾に追加する。
func (s *Service) Mark(ctx context.Context, rec model.AttendanceRecord) (*model.AttendanceRecord, error) {
	s.Status.Begin()

	var created model.AttendanceRecord
	if err := s.client.Post(ctx, basePath, rec, &created); err != nil {
		s.Status.Fail(apiclient.MessageOr(err, "Failed to mark attendance"))
		return nil, err
	}

	s.Status.Done()
	s.Records.Update(func(cur []model.AttendanceRecord) []model.AttendanceRecord {
		return append(cur, created)
	})
	return &created, nil
}

// MonthRange は月の開始時刻と終了時刻(UTC)を返す。monthの範囲外の値はtime.Dateの正規化に従う。
func MonthRange(month time.Month, year int) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

func cloneSummary(s *model.AttendanceSummary) *model.AttendanceSummary {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
