package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"feedback-bot/internal/domain"
	"feedback-bot/internal/repository"
)

var (
	ErrNoValidFeedback = errors.New("no valid feedback available")
	ErrNotEnoughData   = errors.New("not enough data")
)

const (
	RecommendationHighNegative = "High negative feedback detected. Improve customer support."
	RecommendationRetention    = "Strong positive sentiment. Focus on customer retention."
	RecommendationStable       = "Customer sentiment is stable. Monitor trends."

	minTrendSamples = 4
)

// AnalyticsService calcula metricas sobre los registros no fraudulentos.
// Cada llamada vuelve a leer el repositorio; no hay estado compartido.
type AnalyticsService struct {
	logger   *zap.Logger
	feedback repository.FeedbackRepository
}

func NewAnalyticsService(logger *zap.Logger, feedback repository.FeedbackRepository) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{logger: logger, feedback: feedback}
}

func (s *AnalyticsService) validRecords(ctx context.Context) ([]domain.FeedbackRecord, error) {
	records, err := s.feedback.ListByFraud(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list valid feedback: %w", err)
	}
	s.logger.Debug("analytics scan", zap.Int("valid_records", len(records)))
	return records, nil
}

func (s *AnalyticsService) NPSSummary(ctx context.Context) (domain.NPSSummary, error) {
	records, err := s.validRecords(ctx)
	if err != nil {
		return domain.NPSSummary{}, err
	}
	return ComputeNPSSummary(records)
}

func (s *AnalyticsService) SentimentInsight(ctx context.Context) (domain.SentimentInsight, error) {
	records, err := s.validRecords(ctx)
	if err != nil {
		return domain.SentimentInsight{}, err
	}
	return ComputeSentimentInsight(records)
}

func (s *AnalyticsService) Trend(ctx context.Context) (domain.TrendReport, error) {
	records, err := s.validRecords(ctx)
	if err != nil {
		return domain.TrendReport{}, err
	}
	scores := make([]int, 0, len(records))
	for _, rec := range records {
		scores = append(scores, rec.NPS)
	}
	return ComputeTrend(scores)
}

// ComputeNPSSummary clasifica promotores (>=9), pasivos (7-8) y detractores (<=6).
func ComputeNPSSummary(records []domain.FeedbackRecord) (domain.NPSSummary, error) {
	total := len(records)
	if total == 0 {
		return domain.NPSSummary{}, ErrNoValidFeedback
	}

	var summary domain.NPSSummary
	var csatSum, csatCount int
	for _, rec := range records {
		switch {
		case rec.NPS >= 9:
			summary.Promoters++
		case rec.NPS >= 7:
			summary.Passives++
		default:
			summary.Detractors++
		}
		if rec.CSAT != nil {
			csatSum += *rec.CSAT
			csatCount++
		}
	}

	summary.Total = total
	summary.NPSScore = round2(float64(summary.Promoters-summary.Detractors) / float64(total) * 100)
	if csatCount > 0 {
		summary.AverageCSAT = round2(float64(csatSum) / float64(csatCount))
	}
	return summary, nil
}

// ComputeSentimentInsight reparte el sentimiento y elige la recomendacion.
// La regla negativa se evalua antes que la positiva.
func ComputeSentimentInsight(records []domain.FeedbackRecord) (domain.SentimentInsight, error) {
	total := len(records)
	if total == 0 {
		return domain.SentimentInsight{}, ErrNoValidFeedback
	}

	var positive, neutral, negative int
	for _, rec := range records {
		switch rec.Sentiment {
		case domain.SentimentPositive:
			positive++
		case domain.SentimentNeutral:
			neutral++
		case domain.SentimentNegative:
			negative++
		}
	}

	t := float64(total)
	recommendation := RecommendationStable
	switch {
	case float64(negative)/t > 0.3:
		recommendation = RecommendationHighNegative
	case float64(positive)/t > 0.6:
		recommendation = RecommendationRetention
	}

	return domain.SentimentInsight{
		Total:           total,
		PositivePercent: round2(float64(positive) / t * 100),
		NeutralPercent:  round2(float64(neutral) / t * 100),
		NegativePercent: round2(float64(negative) / t * 100),
		Recommendation:  recommendation,
	}, nil
}

// ComputeTrend compara la media de la primera mitad contra la segunda
// (el elemento del medio cae en la ventana reciente). Un empate es Declining.
func ComputeTrend(scores []int) (domain.TrendReport, error) {
	if len(scores) < minTrendSamples {
		return domain.TrendReport{}, ErrNotEnoughData
	}

	mid := len(scores) / 2
	early := mean(scores[:mid])
	recent := mean(scores[mid:])

	trend := domain.TrendDeclining
	if recent > early {
		trend = domain.TrendImproving
	}

	return domain.TrendReport{
		Trend:         trend,
		EarlyAverage:  round2(early),
		RecentAverage: round2(recent),
	}, nil
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
