package paging

import (
	"testing"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/stretchr/testify/assert"
)

func TestNewRequest_Validation(t *testing.T) {
	_, err := NewRequest(-1, 10)
	assert.True(t, pkg.IsCode(err, pkg.ErrInvalidInputCode))

	_, err = NewRequest(0, 0)
	assert.True(t, pkg.IsCode(err, pkg.ErrInvalidInputCode))

	_, err = NewRequest(0, -5)
	assert.True(t, pkg.IsCode(err, pkg.ErrInvalidInputCode))

	req, err := NewRequest(2, 25)
	assert.NoError(t, err)
	assert.Equal(t, 50, req.Offset())
	assert.Equal(t, 25, req.Limit())
}

func TestNewPage_Metadata(t *testing.T) {
	req, _ := NewRequest(0, 10)

	p := NewPage([]int{1, 2, 3}, req, 23)
	assert.Equal(t, int64(23), p.TotalElements)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Content, 3)

	empty := NewPage[int](nil, req, 0)
	assert.NotNil(t, empty.Content)
	assert.Empty(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestMap_PreservesMetadata(t *testing.T) {
	req, _ := NewRequest(1, 2)
	p := NewPage([]int{3, 4}, req, 6)

	doubled := Map(p, func(v int) int { return v * 2 })
	assert.Equal(t, []int{6, 8}, doubled.Content)
	assert.Equal(t, p.TotalElements, doubled.TotalElements)
	assert.Equal(t, p.TotalPages, doubled.TotalPages)
	assert.Equal(t, p.Page, doubled.Page)
}
