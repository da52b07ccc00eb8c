package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"feedback-bot/internal/domain"
)

const FileName = "feedback_export.csv"

var csvHeader = []string{"ID", "NPS", "CSAT", "CES", "Comment", "Sentiment", "Is_Fraud"}

// WriteCSV serializa los registros con la cabecera de exportacion.
// Las metricas ausentes quedan como celda vacia e Is_Fraud se escribe 1/0.
func WriteCSV(w io.Writer, records []domain.FeedbackRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			strconv.Itoa(rec.NPS),
			optionalInt(rec.CSAT),
			optionalInt(rec.CES),
			rec.Comment,
			string(rec.Sentiment),
			fraudFlag(rec.IsFraud),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", rec.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fraudFlag(isFraud bool) string {
	if isFraud {
		return "1"
	}
	return "0"
}
