package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aide-sociale/internal/domain"
)

func TestListParams_Validate(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		p := domain.ListParams{PaginationParams: domain.PaginationParams{Page: -3, PageSize: 0}}
		require.NoError(t, p.Validate())
		assert.Equal(t, domain.DefaultListParams(), p)
	})

	t.Run("caps page size", func(t *testing.T) {
		p := domain.ListParams{PaginationParams: domain.PaginationParams{Page: 2, PageSize: 1000}}
		require.NoError(t, p.Validate())
		assert.Equal(t, 100, p.PageSize)
		assert.Equal(t, 100, p.Offset())
	})

	t.Run("any stored column is sortable", func(t *testing.T) {
		for _, field := range []string{"category", "read_at", "clicked_at", "language", "delivery_status"} {
			p := domain.ListParams{SortBy: field, SortOrder: domain.SortAsc}
			assert.NoError(t, p.Validate(), field)
		}
	})

	t.Run("unknown sort field", func(t *testing.T) {
		p := domain.ListParams{SortBy: "password_hash"}
		err := p.Validate()
		require.Error(t, err)
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		assert.Contains(t, err.Error(), "password_hash")
	})

	t.Run("unknown sort order", func(t *testing.T) {
		p := domain.ListParams{SortBy: "title", SortOrder: "sideways"}
		err := p.Validate()
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	})
}

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		total     int64
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{name: "first of three", page: 1, pageSize: 20, total: 45, wantPages: 3, wantNext: true},
		{name: "last page", page: 3, pageSize: 20, total: 45, wantPages: 3, wantPrev: true},
		{name: "empty", page: 1, pageSize: 20, total: 0, wantPages: 0},
		{name: "zero page size", page: 1, pageSize: 0, total: 7, wantPages: 1},
		{name: "page below one", page: 0, pageSize: 10, total: 30, wantPages: 3, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := domain.NewPaginatedResponse[int](nil, tt.page, tt.pageSize, tt.total)
			assert.NotNil(t, res.Data)
			assert.Equal(t, tt.wantPages, res.TotalPages)
			assert.Equal(t, tt.wantNext, res.HasNext)
			assert.Equal(t, tt.wantPrev, res.HasPrev)
			assert.GreaterOrEqual(t, res.Page, 1)
		})
	}
}
