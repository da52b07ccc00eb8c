package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"feedback-bot/internal/domain"
	"feedback-bot/internal/repository"
)

var (
	ErrNPSRequired = errors.New("NPS score is required")
	ErrRateLimited = errors.New("rate limited")
)

// SubmitInput es el envio validado de un cliente; los punteros nil son campos ausentes.
type SubmitInput struct {
	NPS     *int
	CSAT    *int
	CES     *int
	Comment *string
	// ClientKey identifica al emisor para el rate limit; vacio omite el limite.
	ClientKey string
}

type SubmitResult struct {
	ID        int64            `json:"id"`
	Sentiment domain.Sentiment `json:"sentiment"`
	IsFraud   bool             `json:"fraud"`
}

// FeedbackService ejecuta el pipeline de envio y las lecturas de registros.
type FeedbackService struct {
	logger     *zap.Logger
	feedback   repository.FeedbackRepository
	classifier *SentimentClassifier
	limiter    SubmissionRateLimiter
	now        func() time.Time
}

func NewFeedbackService(logger *zap.Logger, feedback repository.FeedbackRepository, classifier *SentimentClassifier, limiter SubmissionRateLimiter) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier == nil {
		classifier = NewSentimentClassifier(nil)
	}
	return &FeedbackService{
		logger:     logger,
		feedback:   feedback,
		classifier: classifier,
		limiter:    limiter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit aplica scale-down, sentimiento y fraude, y persiste un registro completo.
// Sin NPS falla antes de consumir cupo del rate limit o tocar el repositorio.
func (s *FeedbackService) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if input.NPS == nil {
		return SubmitResult{}, ErrNPSRequired
	}
	if s.limiter != nil && input.ClientKey != "" {
		client := clientFingerprint(input.ClientKey)
		if !s.limiter.Allow(client) {
			s.logger.Warn("feedback submission rate limited", zap.String("client", client))
			return SubmitResult{}, ErrRateLimited
		}
	}
	if s.feedback == nil {
		return SubmitResult{}, errors.New("feedback service not configured")
	}

	nps := *input.NPS
	csat, ces := ApplyScaleDown(nps, input.CSAT, input.CES)

	comment := ""
	if input.Comment != nil {
		comment = *input.Comment
	}

	record := domain.FeedbackRecord{
		NPS:       nps,
		CSAT:      csat,
		CES:       ces,
		Comment:   comment,
		Sentiment: s.classifier.Classify(comment),
		IsFraud:   DetectFraud(comment, nps),
		CreatedAt: s.now(),
	}

	id, err := s.feedback.Insert(ctx, record)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("insert feedback: %w", err)
	}

	s.logger.Info("feedback stored",
		zap.Int64("id", id),
		zap.Int("nps", nps),
		zap.String("sentiment", string(record.Sentiment)),
		zap.Bool("fraud", record.IsFraud),
	)

	return SubmitResult{
		ID:        id,
		Sentiment: record.Sentiment,
		IsFraud:   record.IsFraud,
	}, nil
}

// ListAll devuelve todos los registros en orden de insercion.
func (s *FeedbackService) ListAll(ctx context.Context) (domain.FeedbackList, error) {
	records, err := s.feedback.ListAll(ctx)
	if err != nil {
		return domain.FeedbackList{}, fmt.Errorf("list feedback: %w", err)
	}
	return newFeedbackList(records), nil
}

// ListFraud devuelve solo los registros marcados como fraude.
func (s *FeedbackService) ListFraud(ctx context.Context) (domain.FeedbackList, error) {
	records, err := s.feedback.ListByFraud(ctx, true)
	if err != nil {
		return domain.FeedbackList{}, fmt.Errorf("list fraud feedback: %w", err)
	}
	return newFeedbackList(records), nil
}

// newFeedbackList nunca devuelve Records nil para que el JSON sea [] y no null.
func newFeedbackList(records []domain.FeedbackRecord) domain.FeedbackList {
	if records == nil {
		records = []domain.FeedbackRecord{}
	}
	return domain.FeedbackList{Count: len(records), Records: records}
}

// clientFingerprint evita guardar IPs crudas en Redis y en los logs.
func clientFingerprint(key string) string {
	sum := blake2b.Sum256([]byte(key))
	return hex.EncodeToString(sum[:12])
}
