package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedback-bot/internal/domain"
)

type feedbackRow struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	NPS       int       `gorm:"column:nps;not null"`
	CSAT      *int      `gorm:"column:csat"`
	CES       *int      `gorm:"column:ces"`
	Comment   string    `gorm:"column:comment;type:text;not null"`
	Sentiment string    `gorm:"column:sentiment;type:text;not null"`
	IsFraud   bool      `gorm:"column:is_fraud;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (feedbackRow) TableName() string {
	return "feedback"
}

// GormFeedbackRepository implementa FeedbackRepository sobre gorm (SQLite por defecto).
type GormFeedbackRepository struct {
	db *gorm.DB
}

var _ FeedbackRepository = (*GormFeedbackRepository)(nil)

func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// EnsureSchema migra la tabla feedback.
func (r *GormFeedbackRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&feedbackRow{}); err != nil {
		return fmt.Errorf("auto migrate feedback: %w", err)
	}
	return nil
}

func (r *GormFeedbackRepository) Insert(ctx context.Context, record domain.FeedbackRecord) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	row := feedbackRow{
		NPS:       record.NPS,
		CSAT:      record.CSAT,
		CES:       record.CES,
		Comment:   record.Comment,
		Sentiment: string(record.Sentiment),
		IsFraud:   record.IsFraud,
		CreatedAt: record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	return row.ID, nil
}

func (r *GormFeedbackRepository) ListAll(ctx context.Context) ([]domain.FeedbackRecord, error) {
	var rows []feedbackRow
	if err := r.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query feedback: %w", err)
	}
	return mapFeedbackRows(rows), nil
}

func (r *GormFeedbackRepository) ListByFraud(ctx context.Context, isFraud bool) ([]domain.FeedbackRecord, error) {
	var rows []feedbackRow
	if err := r.db.WithContext(ctx).
		Where("is_fraud = ?", isFraud).
		Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query feedback by fraud flag: %w", err)
	}
	return mapFeedbackRows(rows), nil
}

func mapFeedbackRows(rows []feedbackRow) []domain.FeedbackRecord {
	records := make([]domain.FeedbackRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.FeedbackRecord{
			ID:        row.ID,
			NPS:       row.NPS,
			CSAT:      row.CSAT,
			CES:       row.CES,
			Comment:   row.Comment,
			Sentiment: domain.Sentiment(row.Sentiment),
			IsFraud:   row.IsFraud,
			CreatedAt: row.CreatedAt,
		})
	}
	return records
}
