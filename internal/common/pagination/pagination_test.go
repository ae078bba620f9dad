package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name       string
		page       int
		wantFirst  int
		wantLen    int
		wantPage   int
		totalPages int
	}{
		{"first page", 1, 1, 20, 1, 3},
		{"last partial page", 3, 41, 5, 3, 3},
		{"below range", 0, 1, 20, 1, 3},
		{"past the end", 4, 0, 0, 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, 0)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, DefaultPerPage, p.PerPage)
			assert.Equal(t, 45, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Len(t, p.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, p.Items[0])
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]string(nil), 1, 20)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
}

func TestPaginateHugeInput(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		p := Paginate(items, int(^uint(0)>>1), 20)
		assert.Empty(t, p.Items)
		assert.Equal(t, int(^uint(0)>>1), p.Page)
		assert.Equal(t, 1, p.TotalPages)
	})

	p := Paginate(items, 1, int(^uint(0)>>1))
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, items, p.Items)
}
