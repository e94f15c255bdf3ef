package query

import (
	"context"

	"github.com/tair/allergy-scan/internal/history/domain"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListHistoryQuery represents the list history query
type ListHistoryQuery struct {
	Limit int
}

// ListHistoryHandler handles list history query
type ListHistoryHandler struct {
	repo domain.EntryRepository
}

// NewListHistoryHandler creates a new list history handler
func NewListHistoryHandler(repo domain.EntryRepository) *ListHistoryHandler {
	return &ListHistoryHandler{repo: repo}
}

// Handle returns the newest entries first
func (h *ListHistoryHandler) Handle(ctx context.Context, q ListHistoryQuery) ([]domain.Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	entries, err := h.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}
