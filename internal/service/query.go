package service

import (
	"strings"

	"github.com/makpal80/avtoray/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery is the raw order listing request: page/limit pagination, status
// filter (all|pending|approved|rejected) and free-text search.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Q      string
}

type ListFilter struct {
	Status *models.OrderStatus
	Query  string
	Page   int
	Limit  int
}

func (f ListFilter) Offset() int { return (f.Page - 1) * f.Limit }

// Normalize applies defaults and rejects out-of-range values.
func (q ListQuery) Normalize() (ListFilter, error) {
	f := ListFilter{Page: q.Page, Limit: q.Limit, Query: strings.TrimSpace(q.Q)}
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Page < 1 || f.Limit < 1 || f.Limit > MaxLimit {
		return ListFilter{}, ErrInvalidQuery
	}

	switch st := strings.ToLower(strings.TrimSpace(q.Status)); st {
	case "", "all":
	default:
		s := models.OrderStatus(st)
		if !s.Valid() {
			return ListFilter{}, ErrInvalidQuery
		}
		f.Status = &s
	}
	return f, nil
}

type OrderPage struct {
	Items []models.Order
	Total int64
	Page  int
	Limit int
}
