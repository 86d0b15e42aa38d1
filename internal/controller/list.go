package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fonotrack/fonotrack/internal/derive"
	"github.com/fonotrack/fonotrack/internal/model"
)

// Delete prompts and alerts.
const (
	promptDeletePatient    = "¿Estás seguro de que deseas eliminar este paciente?"
	promptDeleteEvaluation = "¿Estás seguro de que deseas eliminar esta evaluación?"
	alertDeletePatient     = "Error al eliminar el paciente"
	alertDeleteEvaluation  = "Error al eliminar la evaluación"
)

// PatientListGateway is everything the patient list page needs.
type PatientListGateway interface {
	PatientReader
	PatientDeleter
}

// PatientList governs the patients page: load-on-mount with a demo-data
// fallback, synchronous filtering, reload after mutation, and confirm-gated
// delete.
type PatientList struct {
	mu       sync.Mutex
	loading  bool
	patients []model.Patient
	// loadErr is the dismissable banner message; empty when the last load
	// succeeded.
	loadErr string
	// fallback reports that the current list is the demo dataset.
	fallback bool

	gw  PatientListGateway
	log zerolog.Logger
}

// NewPatientList creates the controller for the patients page.
func NewPatientList(gw PatientListGateway, log zerolog.Logger) *PatientList {
	return &PatientList{gw: gw, log: log}
}

// Load fetches the patient list. A failure never breaks the page: the list
// falls back to the fixed demo dataset and LoadError carries the banner text.
// Re-entrant loads while one is in flight are no-ops, and a cancelled context
// never mutates state.
func (l *PatientList) Load(ctx context.Context) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return
	}
	l.loading = true
	l.mu.Unlock()

	patients, err := l.gw.ListPatients(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		l.log.Error().Err(err).Msg("loading patients failed, using demo data")
		l.patients = FallbackPatients()
		l.fallback = true
		l.loadErr = "No se pudo conectar con el servidor. Mostrando datos de ejemplo."
		return
	}
	l.patients = patients
	l.fallback = false
	l.loadErr = ""
}

// Loading reports whether a load is in flight.
func (l *PatientList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// LoadError returns the current banner message, empty when none.
func (l *PatientList) LoadError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

// Fallback reports whether the demo dataset is being shown.
func (l *PatientList) Fallback() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fallback
}

// Patients returns a copy of the loaded list.
func (l *PatientList) Patients() []model.Patient {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Patient(nil), l.patients...)
}

// Filtered recomputes the visible list from the loaded set: case-insensitive
// substring match on name and document number. No debouncing, no server round
// trip.
func (l *PatientList) Filtered(query string) []model.Patient {
	l.mu.Lock()
	defer l.mu.Unlock()

	if query == "" {
		return append([]model.Patient(nil), l.patients...)
	}
	q := strings.ToLower(query)
	var out []model.Patient
	for _, p := range l.patients {
		if strings.Contains(strings.ToLower(p.FullName()), q) ||
			(p.DocumentNumber != "" && strings.Contains(p.DocumentNumber, query)) {
			out = append(out, p)
		}
	}
	return out
}

// Delete removes a patient after confirmation. Without confirmation nothing
// reaches the gateway. On success the list is re-fetched; on failure the
// alert message is returned and the list is left unchanged.
func (l *PatientList) Delete(ctx context.Context, id string, confirm ConfirmFunc) (string, error) {
	if confirm == nil || !confirm(promptDeletePatient) {
		return "", nil
	}
	if err := l.gw.DeletePatient(ctx, id); err != nil {
		l.log.Error().Err(err).Str("patient_id", id).Msg("deleting patient failed")
		return alertDeletePatient, err
	}
	l.Load(ctx)
	return "", nil
}

// EvaluationListGateway is everything the evaluations page needs.
type EvaluationListGateway interface {
	EvaluationReader
	EvaluationDeleter
	PatientReader
}

// EvaluationList governs the evaluations page: parallel load of evaluations
// and the patient lookup, synchronous search/status filtering, per-status
// counts, and confirm-gated delete.
type EvaluationList struct {
	mu          sync.Mutex
	loading     bool
	evaluations []model.Evaluation
	patients    map[string]model.Patient
	loadErr     string

	gw  EvaluationListGateway
	log zerolog.Logger
}

// NewEvaluationList creates the controller for the evaluations page.
func NewEvaluationList(gw EvaluationListGateway, log zerolog.Logger) *EvaluationList {
	return &EvaluationList{
		gw:       gw,
		log:      log,
		patients: make(map[string]model.Patient),
	}
}

// Load fetches evaluations and patients in parallel. Each load is
// independent: a failure is logged and leaves that list empty without
// blocking the other. Re-entrant loads are no-ops.
func (l *EvaluationList) Load(ctx context.Context) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return
	}
	l.loading = true
	l.mu.Unlock()

	var (
		wg       sync.WaitGroup
		evs      []model.Evaluation
		evErr    error
		patients []model.Patient
		patErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		evs, evErr = l.gw.ListEvaluations(ctx)
	}()
	go func() {
		defer wg.Done()
		patients, patErr = l.gw.ListPatients(ctx)
	}()
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if ctx.Err() != nil {
		return
	}

	l.loadErr = ""
	if evErr != nil {
		l.log.Error().Err(evErr).Msg("loading evaluations failed")
		l.evaluations = nil
		l.loadErr = "No se pudieron cargar las evaluaciones."
	} else {
		l.evaluations = evs
	}
	if patErr != nil {
		l.log.Error().Err(patErr).Msg("loading patients failed")
		l.patients = make(map[string]model.Patient)
	} else {
		lookup := make(map[string]model.Patient, len(patients))
		for _, p := range patients {
			lookup[p.ID] = p
		}
		l.patients = lookup
	}
}

// Reload re-fetches the full evaluation list after a mutation. The redundant
// round-trip guarantees consistency with the remote store.
func (l *EvaluationList) Reload(ctx context.Context) {
	evs, err := l.gw.ListEvaluations(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		l.log.Error().Err(err).Msg("reloading evaluations failed")
		return
	}
	l.evaluations = evs
}

// Loading reports whether a load is in flight.
func (l *EvaluationList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// LoadError returns the current banner message, empty when none.
func (l *EvaluationList) LoadError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

// Evaluations returns a copy of the loaded list.
func (l *EvaluationList) Evaluations() []model.Evaluation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Evaluation(nil), l.evaluations...)
}

// Patient resolves an evaluation's patient from the loaded lookup.
func (l *EvaluationList) Patient(patientID string) (model.Patient, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.patients[patientID]
	return p, ok
}

// Filtered recomputes the visible list: free-text match via the resolved
// patient plus exact status equality. An empty status matches all statuses.
func (l *EvaluationList) Filtered(query, status string) []model.Evaluation {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []model.Evaluation
	for _, ev := range l.evaluations {
		if status != "" && ev.Status != status {
			continue
		}
		if !derive.MatchesSearch(ev, l.patients, query) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Counts tallies the loaded evaluations by status.
func (l *EvaluationList) Counts() derive.StatusCounts {
	l.mu.Lock()
	defer l.mu.Unlock()
	return derive.CountByStatus(l.evaluations)
}

// Delete removes an evaluation after confirmation, then re-fetches the list.
// On failure the alert message is returned and the list is left unchanged.
func (l *EvaluationList) Delete(ctx context.Context, id string, confirm ConfirmFunc) (string, error) {
	if confirm == nil || !confirm(promptDeleteEvaluation) {
		return "", nil
	}
	if err := l.gw.DeleteEvaluation(ctx, id); err != nil {
		l.log.Error().Err(err).Str("evaluation_id", id).Msg("deleting evaluation failed")
		return alertDeleteEvaluation, err
	}
	l.Reload(ctx)
	return "", nil
}
