package service

import (
	"strings"

	"github.com/jonreiter/govader"

	"feedback-bot/internal/domain"
)

const (
	positivePolarityThreshold = 0.2
	negativePolarityThreshold = -0.2
)

// PolarityScorer devuelve la polaridad de un texto en [-1, 1].
type PolarityScorer interface {
	Polarity(text string) float64
}

// VaderScorer usa el lexicon de VADER; el compound ya esta normalizado a [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// SentimentClassifier traduce la polaridad del comentario a Positive/Neutral/Negative.
type SentimentClassifier struct {
	scorer PolarityScorer
}

func NewSentimentClassifier(scorer PolarityScorer) *SentimentClassifier {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	return &SentimentClassifier{scorer: scorer}
}

func (c *SentimentClassifier) Classify(text string) domain.Sentiment {
	if strings.TrimSpace(text) == "" {
		return ClassifyPolarity(0)
	}
	return ClassifyPolarity(c.scorer.Polarity(text))
}

// ClassifyPolarity aplica los umbrales; los bordes +-0.2 quedan en Neutral.
func ClassifyPolarity(polarity float64) domain.Sentiment {
	switch {
	case polarity > positivePolarityThreshold:
		return domain.SentimentPositive
	case polarity < negativePolarityThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
