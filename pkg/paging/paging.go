// Package paging carries page requests and results between handlers,
// services, and repositories. Page indexes are zero-based; a request with a
// negative page or a non-positive size is rejected outright rather than
// clamped.
package paging

import (
	"github.com/dtb-bank/core-banking/pkg"
)

type Request struct {
	Page int
	Size int
}

// NewRequest validates caller-supplied pagination input.
func NewRequest(page, size int) (Request, error) {
	if page < 0 {
		return Request{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "page index must not be negative", nil)
	}
	if size < 1 {
		return Request{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "page size must be positive", nil)
	}
	return Request{Page: page, Size: size}, nil
}

func (r Request) Offset() int {
	return r.Page * r.Size
}

func (r Request) Limit() int {
	return r.Size
}

// Page is one page of content plus total-count metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := int(total / int64(req.Size))
	if total%int64(req.Size) != 0 {
		pages++
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// Map rebuilds a page with each element transformed, keeping the metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, el := range p.Content {
		out = append(out, fn(el))
	}
	return Page[U]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
