package model

// DashboardStats is the server-computed dashboard snapshot. The client treats
// it as opaque and refreshes it on each page load.
type DashboardStats struct {
	TotalPacientes      int          `json:"totalPacientes"`
	TotalEvaluaciones   int          `json:"totalEvaluaciones"`
	TotalDocumentos     int          `json:"totalDocumentos"`
	EvaluacionesEsteMes int          `json:"evaluacionesEsteMes"`
	RecentEvaluations   []Evaluation `json:"recentEvaluations,omitempty"`
}

// MonthlyStat is one point of the evaluations-per-month series.
type MonthlyStat struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// PatientSearchResult is a page of server-side patient search results.
type PatientSearchResult struct {
	Patients []Patient `json:"patients"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// GlobalSearchResult groups matches across record families.
type GlobalSearchResult struct {
	Patients    []Patient    `json:"patients"`
	Evaluations []Evaluation `json:"evaluations"`
}
