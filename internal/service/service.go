// Package service contains the business logic for the dealer inventory API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"fmt"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// newPage wraps repo results, guaranteeing a non-nil Items slice.
func newPage[T any](items []T, total int64) domain.Page[T] {
	if items == nil {
		items = []T{}
	}
	return domain.Page[T]{Items: items, Total: total}
}

// detailCacheKey is the cache key of a public vehicle detail.
func detailCacheKey(slug string) string {
	return fmt.Sprintf("vehicle:slug:%s", slug)
}
