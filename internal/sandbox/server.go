package sandbox

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fonotrack/fonotrack/internal/model"
)

// Server wraps the echo instance serving the sandbox API.
type Server struct {
	store *Store
	echo  *echo.Echo
	log   zerolog.Logger
}

// NewServer builds the sandbox HTTP surface over the given store.
func NewServer(store *Store, log zerolog.Logger) *Server {
	s := &Server{store: store, log: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.requestLogger)

	e.GET("/api/pacientes", s.listPatients)
	e.GET("/api/pacientes/:id", s.getPatient)
	e.POST("/api/pacientes", s.createPatient)
	e.PUT("/api/pacientes/:id", s.updatePatient)
	e.DELETE("/api/pacientes/:id", s.deletePatient)

	e.GET("/api/evaluaciones", s.listEvaluations)
	e.GET("/api/evaluaciones/:id", s.getEvaluation)
	e.GET("/api/evaluaciones/patient/:id", s.listEvaluationsByPatient)
	e.POST("/api/evaluaciones", s.createEvaluation)
	e.PUT("/api/evaluaciones/:id", s.updateEvaluation)
	e.DELETE("/api/evaluaciones/:id", s.deleteEvaluation)

	e.GET("/api/documentos", s.listDocuments)
	e.GET("/api/documentos/patient/:id", s.listDocumentsByPatient)
	e.GET("/api/documentos/download/:id", s.downloadDocument)
	e.DELETE("/api/documentos/:id", s.deleteDocument)

	e.GET("/api/dashboard/stats", s.dashboardStats)
	e.GET("/api/dashboard/monthly-stats", s.monthlyStats)

	e.GET("/api/buscar/pacientes", s.searchPatients)
	e.GET("/api/buscar/global", s.searchGlobal)

	s.echo = e
	return s
}

// Handler exposes the server as an http.Handler for httptest and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until the process exits.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		evt := s.log.Info()
		if err != nil {
			evt = s.log.Error().Err(err)
		}
		evt.
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Int("status", c.Response().Status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}

func apiError(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// -- Patients --

// listPatients returns a bare array, one of the wrapper shapes the client
// must accept.
func (s *Server) listPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.ListPatients())
}

func (s *Server) getPatient(c echo.Context) error {
	p, err := s.store.GetPatient(c.Param("id"))
	if err != nil {
		return apiError(c, http.StatusNotFound, "Paciente no encontrado")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createPatient(c echo.Context) error {
	var d model.PatientDraft
	if err := c.Bind(&d); err != nil {
		return apiError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return apiError(c, http.StatusBadRequest, "El nombre y el apellido son requeridos")
	}
	if strings.TrimSpace(d.ReasonForConsult) == "" {
		return apiError(c, http.StatusBadRequest, "El motivo de consulta es requerido")
	}
	p := &model.Patient{
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		DateOfBirth:      d.DateOfBirth,
		Diagnosis:        d.Diagnosis,
		ReasonForConsult: d.ReasonForConsult,
		GeneralNotes:     d.GeneralNotes,
		IsActive:         true,
	}
	s.store.CreatePatient(p)
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePatient(c echo.Context) error {
	var d model.PatientDraft
	if err := c.Bind(&d); err != nil {
		return apiError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	p, err := s.store.UpdatePatient(c.Param("id"), d)
	if err != nil {
		return apiError(c, http.StatusNotFound, "Paciente no encontrado")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) deletePatient(c echo.Context) error {
	if err := s.store.DeletePatient(c.Param("id")); err != nil {
		return apiError(c, http.StatusNotFound, "Paciente no encontrado")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Evaluations --

// listEvaluations wraps the array under "evaluations", another shape the
// client must accept.
func (s *Server) listEvaluations(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"evaluations": s.store.ListEvaluations()})
}

func (s *Server) getEvaluation(c echo.Context) error {
	e, err := s.store.GetEvaluation(c.Param("id"))
	if err != nil {
		return apiError(c, http.StatusNotFound, "Evaluación no encontrada")
	}
	return c.JSON(http.StatusOK, e)
}

// listEvaluationsByPatient uses the legacy "evaluaciones" wrapper key.
func (s *Server) listEvaluationsByPatient(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"evaluaciones": s.store.ListEvaluationsByPatient(c.Param("id")),
	})
}

func (s *Server) createEvaluation(c echo.Context) error {
	var d model.EvaluationDraft
	if err := c.Bind(&d); err != nil {
		return apiError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	if d.PatientID == "" {
		return apiError(c, http.StatusBadRequest, "El paciente es requerido")
	}
	if !s.store.HasPatient(d.PatientID) {
		return apiError(c, http.StatusBadRequest, "El paciente seleccionado no existe")
	}
	if strings.TrimSpace(d.GeneralObservations) == "" {
		return apiError(c, http.StatusBadRequest, "Las observaciones generales son requeridas")
	}
	e := &model.Evaluation{
		PatientID:           d.PatientID,
		EvaluationDate:      d.EvaluationDate,
		VoiceQuality:        d.VoiceQuality,
		VoiceIntensity:      d.VoiceIntensity,
		VoiceNotes:          d.VoiceNotes,
		Comprehension:       d.Comprehension,
		Expression:          d.Expression,
		LanguageNotes:       d.LanguageNotes,
		HearingResult:       d.HearingResult,
		HearingNotes:        d.HearingNotes,
		OralPhase:           d.OralPhase,
		PharyngealPhase:     d.PharyngealPhase,
		SwallowingNotes:     d.SwallowingNotes,
		GeneralObservations: d.GeneralObservations,
		Recommendations:     d.Recommendations,
	}
	s.store.CreateEvaluation(e)
	return c.JSON(http.StatusCreated, e)
}

func (s *Server) updateEvaluation(c echo.Context) error {
	var d model.EvaluationDraft
	if err := c.Bind(&d); err != nil {
		return apiError(c, http.StatusBadRequest, "Cuerpo de solicitud inválido")
	}
	e, err := s.store.UpdateEvaluation(c.Param("id"), d)
	if err != nil {
		return apiError(c, http.StatusNotFound, "Evaluación no encontrada")
	}
	return c.JSON(http.StatusOK, e)
}

func (s *Server) deleteEvaluation(c echo.Context) error {
	if err := s.store.DeleteEvaluation(c.Param("id")); err != nil {
		return apiError(c, http.StatusNotFound, "Evaluación no encontrada")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Documents --

// Document listings use the "documents" wrapper key.
func (s *Server) listDocuments(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"documents": s.store.ListDocuments()})
}

func (s *Server) listDocumentsByPatient(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"documents": s.store.ListDocumentsByPatient(c.Param("id")),
	})
}

func (s *Server) downloadDocument(c echo.Context) error {
	contents, name, err := s.store.DocumentContents(c.Param("id"))
	if err != nil {
		return apiError(c, http.StatusNotFound, "Documento no encontrado")
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, contents)
}

func (s *Server) deleteDocument(c echo.Context) error {
	if err := s.store.DeleteDocument(c.Param("id")); err != nil {
		return apiError(c, http.StatusNotFound, "Documento no encontrado")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Dashboard --

func (s *Server) dashboardStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Stats())
}

func (s *Server) monthlyStats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"data": s.store.MonthlyStats()})
}

// -- Search --

func (s *Server) searchPatients(c echo.Context) error {
	query := strings.ToLower(c.QueryParam("q"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}

	var matched []model.Patient
	for _, p := range s.store.ListPatients() {
		if query == "" ||
			strings.Contains(strings.ToLower(p.FullName()), query) ||
			strings.Contains(p.DocumentNumber, c.QueryParam("q")) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, model.PatientSearchResult{
		Patients: matched[start:end],
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

func (s *Server) searchGlobal(c echo.Context) error {
	query := strings.ToLower(c.QueryParam("q"))

	var patients []model.Patient
	patientHit := make(map[string]bool)
	for _, p := range s.store.ListPatients() {
		if query != "" && (strings.Contains(strings.ToLower(p.FullName()), query) ||
			strings.Contains(strings.ToLower(p.Diagnosis), query)) {
			patients = append(patients, p)
			patientHit[p.ID] = true
		}
	}

	var evaluations []model.Evaluation
	for _, e := range s.store.ListEvaluations() {
		if query == "" {
			continue
		}
		if patientHit[e.PatientID] ||
			strings.Contains(strings.ToLower(e.GeneralObservations), query) ||
			strings.Contains(strings.ToLower(e.Recommendations), query) {
			evaluations = append(evaluations, e)
		}
	}

	return c.JSON(http.StatusOK, model.GlobalSearchResult{
		Patients:    patients,
		Evaluations: evaluations,
	})
}
