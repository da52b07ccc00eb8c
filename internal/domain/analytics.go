package domain

const (
	TrendImproving = "Improving"
	TrendDeclining = "Declining"
)

// NPSSummary resume el NPS sobre los registros validos (no fraudulentos).
type NPSSummary struct {
	Total       int     `json:"total_responses"`
	NPSScore    float64 `json:"nps_score"`
	AverageCSAT float64 `json:"average_csat"`
	Promoters   int     `json:"promoters"`
	Passives    int     `json:"passives"`
	Detractors  int     `json:"detractors"`
}

// SentimentInsight reparte el sentimiento en porcentajes y sugiere una accion.
type SentimentInsight struct {
	Total           int     `json:"total_feedback"`
	PositivePercent float64 `json:"positive_percent"`
	NeutralPercent  float64 `json:"neutral_percent"`
	NegativePercent float64 `json:"negative_percent"`
	Recommendation  string  `json:"recommendation"`
}

// TrendReport compara el NPS medio de la primera y la segunda mitad.
type TrendReport struct {
	Trend         string  `json:"trend"`
	EarlyAverage  float64 `json:"early_average_nps"`
	RecentAverage float64 `json:"recent_average_nps"`
}
