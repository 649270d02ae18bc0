package model

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name       string
		totalCount int
		pageSize   int
		want       int
	}{
		{"割り切れる", 20, 10, 2},
		{"端数は切り上げ", 21, 10, 3},
		{"1件", 1, 10, 1},
		{"0件", 0, 10, 0},
		{"pageSizeが0", 25, 0, 0},
		{"pageSizeが負", 25, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.totalCount, tt.pageSize); got != tt.want {
				t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.totalCount, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		items      []int
		pageNumber int
		pageSize   int
		totalCount int
		wantItems  []int
		wantPages  int
		wantNext   bool
		wantPrev   bool
	}{
		{
			name:  "先頭ページ",
			items: []int{1, 2, 3}, pageNumber: 1, pageSize: 3, totalCount: 7,
			wantItems: []int{1, 2, 3}, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name:  "中間ページ",
			items: []int{4, 5, 6}, pageNumber: 2, pageSize: 3, totalCount: 7,
			wantItems: []int{4, 5, 6}, wantPages: 3, wantNext: true, wantPrev: true,
		},
		{
			name:  "最終ページ",
			items: []int{7}, pageNumber: 3, pageSize: 3, totalCount: 7,
			wantItems: []int{7}, wantPages: 3, wantNext: false, wantPrev: true,
		},
		{
			name:  "pageSizeを超える分は切り詰める",
			items: []int{1, 2, 3, 4, 5}, pageNumber: 1, pageSize: 2, totalCount: 5,
			wantItems: []int{1, 2}, wantPages: 3, wantNext: true, wantPrev: false,
		},
		{
			name:  "pageSizeが0以下なら切り詰めない",
			items: []int{1, 2, 3}, pageNumber: 1, pageSize: 0, totalCount: 3,
			wantItems: []int{1, 2, 3}, wantPages: 0, wantNext: false, wantPrev: false,
		},
		{
			name:  "ページ番号は1以上に補正",
			items: nil, pageNumber: 0, pageSize: 10, totalCount: 0,
			wantItems: []int{}, wantPages: 0, wantNext: false, wantPrev: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPage(tt.items, tt.pageNumber, tt.pageSize, tt.totalCount)

			if diff := cmp.Diff(tt.wantItems, got.Items); diff != "" {
				t.Errorf("Items mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(got.Items, got.Data); diff != "" {
				t.Errorf("Data should mirror Items (-items +data):\n%s", diff)
			}
			if got.PageNumber < 1 {
				t.Errorf("PageNumber = %d, want >= 1", got.PageNumber)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", got.HasNextPage, tt.wantNext)
			}
			if got.HasPreviousPage != tt.wantPrev {
				t.Errorf("HasPreviousPage = %v, want %v", got.HasPreviousPage, tt.wantPrev)
			}
		})
	}
}

func TestRecords_PrefersItemsOverData(t *testing.T) {
	both := PaginatedResponse[int]{Items: []int{1}, Data: []int{2}}
	if diff := cmp.Diff([]int{1}, both.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}

	dataOnly := PaginatedResponse[int]{Data: []int{2, 3}}
	if diff := cmp.Diff([]int{2, 3}, dataOnly.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginationParams_ValuesRoundTrip(t *testing.T) {
	p := PaginationParams{
		PageNumber:    2,
		PageSize:      25,
		SortBy:        "lastName",
		SortDirection: SortDesc,
		SearchTerm:    "kumar",
		Filters:       map[string]string{"department": "Engineering"},
	}

	got := ParsePaginationParams(p.Values())
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("ParsePaginationParams(Values()) mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePaginationParams_Defaults(t *testing.T) {
	got := ParsePaginationParams(url.Values{"pageNumber": {"abc"}, "pageSize": {"-1"}})
	if got.PageNumber != 1 || got.PageSize != 10 {
		t.Errorf("PageNumber = %d, PageSize = %d, want 1, 10", got.PageNumber, got.PageSize)
	}
	if got.Filters != nil {
		t.Errorf("Filters = %v, want nil", got.Filters)
	}
}
