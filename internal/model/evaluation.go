package model

// Evaluation statuses. The backend may omit the field entirely, in which case
// display and counting treat the evaluation as completed.
const (
	StatusCompleted = "COMPLETED"
	StatusPending   = "PENDING"
	StatusCancelled = "CANCELLED"
)

// Evaluation is a speech-therapy evaluation session. It references its patient
// weakly by ID; the patient may have been deleted since.
type Evaluation struct {
	ID             string `json:"id"`
	PatientID      string `json:"patientId"`
	EvaluationDate string `json:"evaluationDate"`

	VoiceQuality   string `json:"voiceQuality,omitempty"`
	VoiceIntensity string `json:"voiceIntensity,omitempty"`
	VoiceNotes     string `json:"voiceNotes,omitempty"`

	Comprehension string `json:"comprehension,omitempty"`
	Expression    string `json:"expression,omitempty"`
	LanguageNotes string `json:"languageNotes,omitempty"`

	HearingResult string `json:"hearingResult,omitempty"`
	HearingNotes  string `json:"hearingNotes,omitempty"`

	OralPhase       string `json:"oralPhase,omitempty"`
	PharyngealPhase string `json:"pharyngealPhase,omitempty"`
	SwallowingNotes string `json:"swallowingNotes,omitempty"`

	GeneralObservations string `json:"generalObservations"`
	Recommendations     string `json:"recommendations,omitempty"`

	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// DisplayStatus returns the effective status, defaulting to COMPLETED when the
// backend omitted the field.
func (e Evaluation) DisplayStatus() string {
	if e.Status == "" {
		return StatusCompleted
	}
	return e.Status
}

// EvaluationDraft carries the editable fields of an evaluation form.
type EvaluationDraft struct {
	PatientID      string `json:"patientId"`
	EvaluationDate string `json:"evaluationDate"`

	VoiceQuality   string `json:"voiceQuality"`
	VoiceIntensity string `json:"voiceIntensity"`
	VoiceNotes     string `json:"voiceNotes"`

	Comprehension string `json:"comprehension"`
	Expression    string `json:"expression"`
	LanguageNotes string `json:"languageNotes"`

	HearingResult string `json:"hearingResult"`
	HearingNotes  string `json:"hearingNotes"`

	OralPhase       string `json:"oralPhase"`
	PharyngealPhase string `json:"pharyngealPhase"`
	SwallowingNotes string `json:"swallowingNotes"`

	GeneralObservations string `json:"generalObservations"`
	Recommendations     string `json:"recommendations"`
}

// DraftFromEvaluation initializes a draft from an existing record, reducing
// the evaluation date to calendar-date granularity.
func DraftFromEvaluation(e Evaluation) EvaluationDraft {
	return EvaluationDraft{
		PatientID:           e.PatientID,
		EvaluationDate:      DateOnly(e.EvaluationDate),
		VoiceQuality:        e.VoiceQuality,
		VoiceIntensity:      e.VoiceIntensity,
		VoiceNotes:          e.VoiceNotes,
		Comprehension:       e.Comprehension,
		Expression:          e.Expression,
		LanguageNotes:       e.LanguageNotes,
		HearingResult:       e.HearingResult,
		HearingNotes:        e.HearingNotes,
		OralPhase:           e.OralPhase,
		PharyngealPhase:     e.PharyngealPhase,
		SwallowingNotes:     e.SwallowingNotes,
		GeneralObservations: e.GeneralObservations,
		Recommendations:     e.Recommendations,
	}
}

// Assessment select options, verbatim from the evaluation form. An empty value
// means "not evaluated", which is distinct from any of these.
var (
	VoiceQualityOptions   = []string{"Normal", "Ronca", "Débil", "Forzada", "Entre cortada"}
	VoiceIntensityOptions = []string{"Normal", "Alta", "Baja", "Variable"}
	ComprehensionOptions  = []string{"Excelente", "Buena", "Regular", "Limitada", "Severamente afectada"}
	ExpressionOptions     = []string{"Fluida", "Adecuada", "Limitada", "Con dificultades", "Severamente afectada"}
	HearingResultOptions  = []string{"Normal", "Pérdida leve", "Pérdida moderada", "Pérdida severa", "Pérdida profunda"}
	OralPhaseOptions      = []string{"Eficiente", "Con dificultades leves", "Con dificultades moderadas", "Con dificultades severas"}
	PharyngealOptions     = []string{"Eficiente", "Con dificultades leves", "Con dificultades moderadas", "Con dificultades severas"}
)
