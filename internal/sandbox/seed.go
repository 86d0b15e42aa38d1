package sandbox

import "github.com/fonotrack/fonotrack/internal/model"

// Seed populates the store with a small, reproducible clinic dataset mirroring
// the app's illustrative demo patients.
func Seed(s *Store) {
	juan := &model.Patient{
		FirstName:        "Juan",
		LastName:         "Pérez",
		DateOfBirth:      "2016-03-12",
		DocumentNumber:   "40123456",
		Diagnosis:        "Retraso del lenguaje",
		ReasonForConsult: "Dificultades de expresión verbal",
		GeneralNotes:     "Derivado por el pediatra",
		IsActive:         true,
	}
	maria := &model.Patient{
		FirstName:        "María",
		LastName:         "García",
		DateOfBirth:      "2017-08-02",
		DocumentNumber:   "41234567",
		Diagnosis:        "Trastorno de fluidez",
		ReasonForConsult: "Tartamudez en edad escolar",
		IsActive:         true,
	}
	lucia := &model.Patient{
		FirstName:        "Lucía",
		LastName:         "Fernández",
		DateOfBirth:      "2012-11-30",
		DocumentNumber:   "38765432",
		Diagnosis:        "Disfonía",
		ReasonForConsult: "Ronquera persistente",
		IsActive:         false,
	}
	s.CreatePatient(juan)
	s.CreatePatient(maria)
	s.CreatePatient(lucia)

	s.CreateEvaluation(&model.Evaluation{
		PatientID:           juan.ID,
		EvaluationDate:      "2024-01-15",
		VoiceQuality:        "Normal",
		Comprehension:       "Buena",
		Expression:          "Limitada",
		HearingResult:       "Normal",
		OralPhase:           "Eficiente",
		GeneralObservations: "Avances notables en vocabulario expresivo",
		Recommendations:     "Continuar con sesiones semanales",
		Status:              model.StatusCompleted,
	})
	s.CreateEvaluation(&model.Evaluation{
		PatientID:           maria.ID,
		EvaluationDate:      "2024-01-10",
		VoiceQuality:        "Normal",
		Comprehension:       "Excelente",
		Expression:          "Con dificultades",
		GeneralObservations: "Bloqueos frecuentes al inicio de frase",
		Status:              model.StatusPending,
	})
	s.CreateEvaluation(&model.Evaluation{
		PatientID:           lucia.ID,
		EvaluationDate:      "2023-12-04",
		VoiceQuality:        "Ronca",
		VoiceIntensity:      "Baja",
		GeneralObservations: "Se sugiere interconsulta con otorrinolaringología",
		Status:              model.StatusCancelled,
	})

	s.AddDocument(&model.Document{
		PatientID: juan.ID,
		FileName:  "informe-inicial.pdf",
		FileType:  "application/pdf",
	}, []byte("%PDF-1.4 informe inicial de Juan"))
	s.AddDocument(&model.Document{
		PatientID: maria.ID,
		FileName:  "audiometria.pdf",
		FileType:  "application/pdf",
	}, []byte("%PDF-1.4 audiometria de Maria"))
}
