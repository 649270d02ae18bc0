package model

import (
	"net/url"
	"sort"
	"strconv"
)

// SortDirection はソート方向を表す。
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PaginationParams は一覧取得APIのページング・検索条件。
type PaginationParams struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection SortDirection
	SearchTerm    string
	Filters       map[string]string
}

// Values はクエリパラメータに変換する。
// フィルタは filters.<key> 形式で付与する。
func (p PaginationParams) Values() url.Values {
	v := url.Values{}
	v.Set("pageNumber", strconv.Itoa(p.PageNumber))
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortDirection != "" {
		v.Set("sortDirection", string(p.SortDirection))
	}
	if p.SearchTerm != "" {
		v.Set("searchTerm", p.SearchTerm)
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set("filters."+k, p.Filters[k])
	}
	return v
}

// ParsePaginationParams はクエリパラメータからPaginationParamsを復元する。
// 数値として解釈できない値はデフォルト（1ページ目、10件）に置き換える。
func ParsePaginationParams(q url.Values) PaginationParams {
	p := PaginationParams{
		PageNumber:    1,
		PageSize:      10,
		SortBy:        q.Get("sortBy"),
		SortDirection: SortDirection(q.Get("sortDirection")),
		SearchTerm:    q.Get("searchTerm"),
	}
	if n, err := strconv.Atoi(q.Get("pageNumber")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n > 0 {
		p.PageSize = n
	}
	for k, vs := range q {
		if len(k) > len("filters.") && k[:len("filters.")] == "filters." && len(vs) > 0 {
			if p.Filters == nil {
				p.Filters = make(map[string]string)
			}
			p.Filters[k[len("filters."):]] = vs[0]
		}
	}
	return p
}

// PaginatedResponse は一覧APIのエンベロープ。
// 互換性のため同じ一覧をitemsとdataの両方に載せる。
type PaginatedResponse[T any] struct {
	Items           []T  `json:"items"`
	Data            []T  `json:"data"`
	PageNumber      int  `json:"pageNumber"`
	PageSize        int  `json:"pageSize"`
	TotalCount      int  `json:"totalCount"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Records はitemsを優先し、空ならdataを返す。
func (p *PaginatedResponse[T]) Records() []T {
	if len(p.Items) > 0 {
		return p.Items
	}
	return p.Data
}

// TotalPages はceil(totalCount / pageSize)を返す。pageSizeが0以下なら0。
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// NewPage は1ページ分のレコードからエンベロープを組み立てる。
// itemsがpageSizeを超える場合は先頭pageSize件に切り詰める。
func NewPage[T any](items []T, pageNumber, pageSize, totalCount int) PaginatedResponse[T] {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize > 0 && len(items) > pageSize {
		items = items[:pageSize]
	}
	if items == nil {
		items = []T{}
	}
	totalPages := TotalPages(totalCount, pageSize)
	return PaginatedResponse[T]{
		Items:           items,
		Data:            items,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalCount:      totalCount,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
}
