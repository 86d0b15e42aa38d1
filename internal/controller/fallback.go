package controller

import "github.com/fonotrack/fonotrack/internal/model"

// fallbackPatients is the fixed illustrative dataset the patient list shows
// when the backend cannot be reached, so the page stays usable offline and in
// demo mode.
var fallbackPatients = []model.Patient{
	{
		ID:               "demo-1",
		FirstName:        "Juan",
		LastName:         "Pérez",
		DateOfBirth:      "2016-03-12",
		Diagnosis:        "Retraso del lenguaje",
		ReasonForConsult: "Dificultades de expresión verbal",
		IsActive:         true,
		AdmissionDate:    "2024-01-15",
	},
	{
		ID:               "demo-2",
		FirstName:        "María",
		LastName:         "García",
		DateOfBirth:      "2017-08-02",
		Diagnosis:        "Trastorno de fluidez",
		ReasonForConsult: "Tartamudez en edad escolar",
		IsActive:         true,
		AdmissionDate:    "2024-01-10",
	},
}

// FallbackPatients returns a copy of the demo dataset.
func FallbackPatients() []model.Patient {
	return append([]model.Patient(nil), fallbackPatients...)
}
