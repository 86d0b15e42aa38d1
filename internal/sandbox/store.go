// Package sandbox is an in-memory demo backend serving the same REST surface
// the gateway consumes. It exists for developer on-boarding, offline demos,
// and end-to-end tests; it deliberately reproduces the divergent list payload
// shapes observed across backend revisions so the client's normalization
// layer is exercised for real.
package sandbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fonotrack/fonotrack/internal/model"
)

// Store is a thread-safe in-memory record store. Ordered key slices keep
// listing deterministic.
type Store struct {
	mu sync.RWMutex

	patients     map[string]*model.Patient
	patientOrder []string

	evaluations     map[string]*model.Evaluation
	evaluationOrder []string

	documents     map[string]*model.Document
	documentOrder []string

	// contents holds document payloads for the download endpoint.
	contents map[string][]byte

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		patients:    make(map[string]*model.Patient),
		evaluations: make(map[string]*model.Evaluation),
		documents:   make(map[string]*model.Document),
		contents:    make(map[string][]byte),
		now:         time.Now,
	}
}

// -- Patients --

func (s *Store) ListPatients() []model.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Patient, 0, len(s.patientOrder))
	for _, id := range s.patientOrder {
		if p := s.patients[id]; p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (s *Store) GetPatient(id string) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, fmt.Errorf("paciente %s no encontrado", id)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) CreatePatient(p *model.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := s.now().UTC().Format(time.RFC3339)
	p.AdmissionDate = now
	p.UpdatedAt = now
	cp := *p
	s.patients[p.ID] = &cp
	s.patientOrder = append(s.patientOrder, p.ID)
}

func (s *Store) UpdatePatient(id string, d model.PatientDraft) (*model.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, fmt.Errorf("paciente %s no encontrado", id)
	}
	p.FirstName = d.FirstName
	p.LastName = d.LastName
	p.DateOfBirth = d.DateOfBirth
	p.Diagnosis = d.Diagnosis
	p.ReasonForConsult = d.ReasonForConsult
	p.GeneralNotes = d.GeneralNotes
	p.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	cp := *p
	return &cp, nil
}

// DeletePatient removes the patient only. Its evaluations stay behind with a
// dangling reference, matching the remote store's weak-reference behavior.
func (s *Store) DeletePatient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		return fmt.Errorf("paciente %s no encontrado", id)
	}
	delete(s.patients, id)
	s.patientOrder = removeID(s.patientOrder, id)
	return nil
}

// HasPatient reports whether a patient exists.
func (s *Store) HasPatient(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.patients[id]
	return ok
}

// -- Evaluations --

func (s *Store) ListEvaluations() []model.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Evaluation, 0, len(s.evaluationOrder))
	for _, id := range s.evaluationOrder {
		if e := s.evaluations[id]; e != nil {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Store) ListEvaluationsByPatient(patientID string) []model.Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Evaluation
	for _, id := range s.evaluationOrder {
		if e := s.evaluations[id]; e != nil && e.PatientID == patientID {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Store) GetEvaluation(id string) (*model.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluación %s no encontrada", id)
	}
	cp := *e
	return &cp, nil
}

func (s *Store) CreateEvaluation(e *model.Evaluation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = model.StatusCompleted
	}
	now := s.now().UTC().Format(time.RFC3339)
	e.CreatedAt = now
	e.UpdatedAt = now
	cp := *e
	s.evaluations[e.ID] = &cp
	s.evaluationOrder = append(s.evaluationOrder, e.ID)
}

func (s *Store) UpdateEvaluation(id string, d model.EvaluationDraft) (*model.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluación %s no encontrada", id)
	}
	e.PatientID = d.PatientID
	e.EvaluationDate = d.EvaluationDate
	e.VoiceQuality = d.VoiceQuality
	e.VoiceIntensity = d.VoiceIntensity
	e.VoiceNotes = d.VoiceNotes
	e.Comprehension = d.Comprehension
	e.Expression = d.Expression
	e.LanguageNotes = d.LanguageNotes
	e.HearingResult = d.HearingResult
	e.HearingNotes = d.HearingNotes
	e.OralPhase = d.OralPhase
	e.PharyngealPhase = d.PharyngealPhase
	e.SwallowingNotes = d.SwallowingNotes
	e.GeneralObservations = d.GeneralObservations
	e.Recommendations = d.Recommendations
	e.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	cp := *e
	return &cp, nil
}

func (s *Store) DeleteEvaluation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.evaluations[id]; !ok {
		return fmt.Errorf("evaluación %s no encontrada", id)
	}
	delete(s.evaluations, id)
	s.evaluationOrder = removeID(s.evaluationOrder, id)
	return nil
}

// -- Documents --

func (s *Store) ListDocuments() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, 0, len(s.documentOrder))
	for _, id := range s.documentOrder {
		if d := s.documents[id]; d != nil {
			out = append(out, *d)
		}
	}
	return out
}

func (s *Store) ListDocumentsByPatient(patientID string) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Document
	for _, id := range s.documentOrder {
		if d := s.documents[id]; d != nil && d.PatientID == patientID {
			out = append(out, *d)
		}
	}
	return out
}

func (s *Store) AddDocument(d *model.Document, contents []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.FileSize = int64(len(contents))
	d.UploadDate = s.now().UTC().Format(time.RFC3339)
	cp := *d
	s.documents[d.ID] = &cp
	s.documentOrder = append(s.documentOrder, d.ID)
	s.contents[d.ID] = contents
}

func (s *Store) DocumentContents(id string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, "", fmt.Errorf("documento %s no encontrado", id)
	}
	return s.contents[id], d.FileName, nil
}

func (s *Store) DeleteDocument(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("documento %s no encontrado", id)
	}
	delete(s.documents, id)
	delete(s.contents, id)
	s.documentOrder = removeID(s.documentOrder, id)
	return nil
}

// -- Stats --

// Stats computes the dashboard snapshot from the current store contents.
func (s *Store) Stats() model.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	thisMonth := 0
	var recent []model.Evaluation
	for i := len(s.evaluationOrder) - 1; i >= 0 && len(recent) < 5; i-- {
		if e := s.evaluations[s.evaluationOrder[i]]; e != nil {
			recent = append(recent, *e)
		}
	}
	for _, id := range s.evaluationOrder {
		e := s.evaluations[id]
		if e == nil {
			continue
		}
		if t, err := time.Parse("2006-01-02", model.DateOnly(e.EvaluationDate)); err == nil {
			if t.Year() == now.Year() && t.Month() == now.Month() {
				thisMonth++
			}
		}
	}

	return model.DashboardStats{
		TotalPacientes:      len(s.patients),
		TotalEvaluaciones:   len(s.evaluations),
		TotalDocumentos:     len(s.documents),
		EvaluacionesEsteMes: thisMonth,
		RecentEvaluations:   recent,
	}
}

// MonthlyStats returns the evaluations-per-month series for the last six
// months, oldest first.
func (s *Store) MonthlyStats() []model.MonthlyStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, id := range s.evaluationOrder {
		e := s.evaluations[id]
		if e == nil {
			continue
		}
		if t, err := time.Parse("2006-01-02", model.DateOnly(e.EvaluationDate)); err == nil {
			counts[t.Format("2006-01")]++
		}
	}

	now := s.now()
	out := make([]model.MonthlyStat, 0, 6)
	for i := 5; i >= 0; i-- {
		month := now.AddDate(0, -i, 0).Format("2006-01")
		out = append(out, model.MonthlyStat{Month: month, Count: counts[month]})
	}
	return out
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
