package domain

import "time"

// Sentiment es la clasificacion derivada del comentario; nunca la envia el cliente.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// FeedbackRecord es una respuesta de cliente ya procesada y persistida.
// Es inmutable una vez guardada: no existe operacion de update.
type FeedbackRecord struct {
	ID        int64     `json:"id"`
	NPS       int       `json:"nps"`
	CSAT      *int      `json:"csat"`
	CES       *int      `json:"ces"`
	Comment   string    `json:"comment"`
	Sentiment Sentiment `json:"sentiment"`
	IsFraud   bool      `json:"is_fraud"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackList agrupa registros con su conteo; cada handler elige las claves JSON.
type FeedbackList struct {
	Count   int
	Records []FeedbackRecord
}
