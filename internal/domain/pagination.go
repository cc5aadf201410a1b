package domain

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PaginationParams struct {
	Page     int `json:"page" query:"page"`
	PageSize int `json:"page_size" query:"page_size"`
}

type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPaginatedResponse derives the page metadata. A non-positive pageSize
// yields a single page holding everything.
func NewPaginatedResponse[T any](data []T, page, pageSize int, totalItems int64) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	if page < 1 {
		page = 1
	}

	totalPages := 0
	switch {
	case pageSize > 0:
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	case totalItems > 0:
		totalPages = 1
	}

	return PaginatedResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func DefaultPagination() PaginationParams {
	return PaginationParams{Page: 1, PageSize: defaultPageSize}
}

// Validate clamps the page into range; it never fails.
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortableFields are the stored notification columns a listing may be ordered by.
var SortableFields = map[string]bool{
	"number":          true,
	"recipient_id":    true,
	"batch_id":        true,
	"title":           true,
	"message":         true,
	"language":        true,
	"type":            true,
	"category":        true,
	"priority":        true,
	"is_urgent":       true,
	"delivery_status": true,
	"action_required": true,
	"action_type":     true,
	"scheduled_for":   true,
	"expires_at":      true,
	"status":          true,
	"sent_at":         true,
	"is_read":         true,
	"read_at":         true,
	"is_clicked":      true,
	"clicked_at":      true,
	"retry_count":     true,
	"retry_after":     true,
	"created_by":      true,
	"created_at":      true,
	"updated_at":      true,
}

type ListParams struct {
	PaginationParams
	SortBy    string
	SortOrder SortOrder
}

func DefaultListParams() ListParams {
	return ListParams{
		PaginationParams: DefaultPagination(),
		SortBy:           "created_at",
		SortOrder:        SortDesc,
	}
}

// Validate clamps the page, fills sort defaults and rejects unknown sort
// fields or directions.
func (p *ListParams) Validate() error {
	p.PaginationParams.Validate()

	if p.SortBy == "" {
		p.SortBy = "created_at"
	}
	if !SortableFields[p.SortBy] {
		return BadRequest("Invalid sort field %q", p.SortBy)
	}

	switch p.SortOrder {
	case "":
		p.SortOrder = SortDesc
	case SortAsc, SortDesc:
	default:
		return BadRequest("Invalid sort order %q", p.SortOrder)
	}
	return nil
}
