package service

// ApplyScaleDown descarta la metrica que no es confiable para el rango de NPS:
// promotores (>=9) pierden CES y detractores fuertes (<=4) pierden CSAT.
func ApplyScaleDown(nps int, csat, ces *int) (*int, *int) {
	if nps >= 9 {
		ces = nil
	}
	if nps <= 4 {
		csat = nil
	}
	return csat, ces
}
