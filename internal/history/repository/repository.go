package repository

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/allergy-scan/internal/history/domain"
)

var tracer = otel.Tracer("history-repository")

// GormEntryRepository stores entries in postgres
type GormEntryRepository struct {
	db *gorm.DB
}

func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

func (r *GormEntryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Entry{})
}

func (r *GormEntryRepository) Add(ctx context.Context, entry *domain.Entry) error {
	ctx, span := tracer.Start(ctx, "repository.Add",
		trace.WithAttributes(
			attribute.String("entry.id", entry.ID),
			attribute.String("entry.event_type", entry.EventType),
		),
	)
	defer span.End()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *GormEntryRepository) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	ctx, span := tracer.Start(ctx, "repository.Recent",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	var entries []domain.Entry
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(entries)))
	return entries, nil
}

// MemoryEntryRepository keeps entries for the life of the process
type MemoryEntryRepository struct {
	mu      sync.RWMutex
	entries []domain.Entry
	seen    map[string]bool
}

func NewMemoryEntryRepository() *MemoryEntryRepository {
	return &MemoryEntryRepository{seen: make(map[string]bool)}
}

func (r *MemoryEntryRepository) Add(_ context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[entry.ID] {
		return nil
	}
	r.seen[entry.ID] = true
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryEntryRepository) Recent(_ context.Context, limit int) ([]domain.Entry, error) {
	r.mu.RLock()
	out := append([]domain.Entry(nil), r.entries...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
