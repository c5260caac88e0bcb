package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
	}{
		{name: "first page", page: 1, limit: 10, wantLimit: 10, wantOffset: 0},
		{name: "third page", page: 3, limit: 25, wantLimit: 25, wantOffset: 50},
		{name: "zero page clamps", page: 0, limit: 10, wantLimit: 10, wantOffset: 0},
		{name: "oversized limit falls back", page: 2, limit: 1000, wantLimit: 20, wantOffset: 20},
		{name: "negative limit falls back", page: 1, limit: -5, wantLimit: 20, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}
