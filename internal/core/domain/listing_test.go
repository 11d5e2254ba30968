package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		totalItems int64
		want       domain.Pagination
	}{
		{
			name: "first_of_three_pages", page: 1, pageSize: 10, totalItems: 25,
			want: domain.Pagination{CurrentPage: 1, TotalPages: 3, TotalItems: 25, HasNext: true, HasPrevious: false},
		},
		{
			name: "middle_page", page: 2, pageSize: 10, totalItems: 25,
			want: domain.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 25, HasNext: true, HasPrevious: true},
		},
		{
			name: "last_page", page: 3, pageSize: 10, totalItems: 25,
			want: domain.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 25, HasNext: false, HasPrevious: true},
		},
		{
			name: "exact_multiple", page: 2, pageSize: 10, totalItems: 20,
			want: domain.Pagination{CurrentPage: 2, TotalPages: 2, TotalItems: 20, HasNext: false, HasPrevious: true},
		},
		{
			name: "empty_result_set", page: 1, pageSize: 10, totalItems: 0,
			want: domain.Pagination{CurrentPage: 1, TotalPages: 0, TotalItems: 0, HasNext: false, HasPrevious: false},
		},
		{
			name: "single_partial_page", page: 1, pageSize: 10, totalItems: 7,
			want: domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 7, HasNext: false, HasPrevious: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.NewPagination(tt.page, tt.pageSize, tt.totalItems)
			assert.Equal(t, tt.want, got)

			// Envelope invariants hold for every input.
			assert.Equal(t, got.CurrentPage < got.TotalPages, got.HasNext)
			assert.Equal(t, got.CurrentPage > 1, got.HasPrevious)
		})
	}
}
