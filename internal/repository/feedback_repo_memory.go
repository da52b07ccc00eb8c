package repository

import (
	"context"
	"sync"

	"feedback-bot/internal/domain"
)

// MemoryFeedbackRepository guarda feedback en memoria; util para tests y STORE_DRIVER=memory.
type MemoryFeedbackRepository struct {
	mu      sync.Mutex
	nextID  int64
	records []domain.FeedbackRecord
}

var _ FeedbackRepository = (*MemoryFeedbackRepository)(nil)

func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{nextID: 1}
}

func (r *MemoryFeedbackRepository) Insert(_ context.Context, record domain.FeedbackRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, cloneRecord(record))
	return record.ID, nil
}

func (r *MemoryFeedbackRepository) ListAll(_ context.Context) ([]domain.FeedbackRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.FeedbackRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (r *MemoryFeedbackRepository) ListByFraud(_ context.Context, isFraud bool) ([]domain.FeedbackRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.FeedbackRecord, 0)
	for _, rec := range r.records {
		if rec.IsFraud == isFraud {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

// Len devuelve la cantidad de registros guardados.
func (r *MemoryFeedbackRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func cloneRecord(rec domain.FeedbackRecord) domain.FeedbackRecord {
	rec.CSAT = cloneInt(rec.CSAT)
	rec.CES = cloneInt(rec.CES)
	return rec
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
