package fleet

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"resumescore/internal/errors"
	"resumescore/internal/types"
)

// Record is a stored score for one resume
type Record struct {
	ID        string           `json:"id"`
	Score     int              `json:"score"`
	Band      types.Band       `json:"band"`
	Feedback  []types.Feedback `json:"feedback"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// ScoreStore persists the latest score of each resume
type ScoreStore interface {
	Save(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context) ([]Record, error)
}

// NewRecord builds a storable record from a report
func NewRecord(id string, report types.ScoreReport, now time.Time) Record {
	return Record{
		ID:        id,
		Score:     report.Score,
		Band:      report.Band,
		Feedback:  slices.Clone(report.Feedback),
		UpdatedAt: now,
	}
}

// MemoryStore is a process-local ScoreStore
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "record id is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	record.Feedback = slices.Clone(record.Feedback)
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return Record{}, errors.NewValidationError(errors.ErrCodeNotFound, "no score stored for resume", nil).
			WithContext("resume_id", id)
	}
	record.Feedback = slices.Clone(record.Feedback)
	return record, nil
}

// List returns all records ordered by id
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	records := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	s.mu.RUnlock()

	slices.SortFunc(records, func(a, b Record) int { return strings.Compare(a.ID, b.ID) })
	return records, nil
}

// StoredStats computes fleet statistics from stored scores without rescoring
func StoredStats(ctx context.Context, store ScoreStore) (types.FleetStats, error) {
	records, err := store.List(ctx)
	if err != nil {
		return types.FleetStats{}, err
	}
	scores := make([]int, 0, len(records))
	for _, record := range records {
		scores = append(scores, record.Score)
	}
	return ComputeStats(scores), nil
}
