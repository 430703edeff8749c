package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name          string
		page, size    int
		offset, limit int
	}{
		{"defaults", 0, 0, 0, DefaultPageSize},
		{"second page", 2, 20, 20, 20},
		{"oversized", 1, 500, 0, DefaultPageSize},
		{"negative page", -3, 5, 0, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := Calculate(tc.page, tc.size)
			assert.Equal(t, tc.offset, offset)
			assert.Equal(t, tc.limit, limit)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("", 7))
	assert.Equal(t, 7, ParseIntDefault("abc", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestPageMeta(t *testing.T) {
	p := NewPage(2, 10)
	m := p.Meta(25)
	assert.Equal(t, 2, m.Page)
	assert.EqualValues(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	last := NewPage(3, 10).Meta(25)
	assert.False(t, last.HasNext)

	empty := NewPage(1, 10).Meta(0)
	assert.EqualValues(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
