package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fonotrack/fonotrack/internal/model"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL), srv
}

func TestListPatientsBareArray(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pacientes" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Patient{{ID: "p1", FirstName: "Juan"}})
	})
	defer srv.Close()

	patients, err := client.ListPatients(context.Background())
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(patients) != 1 || patients[0].ID != "p1" {
		t.Fatalf("unexpected patients: %+v", patients)
	}
}

func TestListEvaluationsWrappedPayload(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"evaluations":[{"id":"e1","patientId":"p1"}]}`))
	})
	defer srv.Close()

	evs, err := client.ListEvaluations(context.Background())
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if len(evs) != 1 || evs[0].ID != "e1" {
		t.Fatalf("unexpected evaluations: %+v", evs)
	}
}

// An unrecognized payload shape degrades to an empty list rather than an
// error; the page renders empty instead of failing.
func TestListUnknownShapeDegradesToEmpty(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"e1"}]}`))
	})
	defer srv.Close()

	evs, err := client.ListEvaluations(context.Background())
	if err != nil {
		t.Fatalf("ListEvaluations: %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("expected empty list, got %+v", evs)
	}
}

func TestGetPatientNotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Paciente no encontrado"}`))
	})
	defer srv.Close()

	_, err := client.GetPatient(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePatientSurfacesServerMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"El nombre y el apellido son requeridos"}`))
	})
	defer srv.Close()

	_, err := client.CreatePatient(context.Background(), model.PatientDraft{})
	msg, ok := ServerMessage(err)
	if !ok {
		t.Fatalf("expected a server message, got %v", err)
	}
	if msg != "El nombre y el apellido son requeridos" {
		t.Fatalf("unexpected message %q", msg)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

func TestServerErrorWithoutMessage(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})
	defer srv.Close()

	_, err := client.ListPatients(context.Background())
	if _, ok := ServerMessage(err); ok {
		t.Fatalf("expected no server message for a non-JSON body, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL)

	_, err := client.ListPatients(context.Background())
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestCreatePatientSendsJSONBody(t *testing.T) {
	var got model.PatientDraft
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Patient{ID: "p1", FirstName: got.FirstName})
	})
	defer srv.Close()

	created, err := client.CreatePatient(context.Background(), model.PatientDraft{
		FirstName: "Lucía", LastName: "Fernández",
	})
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if got.FirstName != "Lucía" || got.LastName != "Fernández" {
		t.Fatalf("server saw draft %+v", got)
	}
	if created.ID != "p1" {
		t.Fatalf("expected server-assigned ID, got %+v", created)
	}
}

func TestDownloadDocumentReturnsRawBytes(t *testing.T) {
	payload := []byte("%PDF-1.4 informe")
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documentos/download/d1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write(payload)
	})
	defer srv.Close()

	data, err := client.DownloadDocument(context.Background(), "d1")
	if err != nil {
		t.Fatalf("DownloadDocument: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestSearchPatientsClampsPagination(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "1" || q.Get("limit") != "10" {
			t.Errorf("expected clamped page/limit, got %s/%s", q.Get("page"), q.Get("limit"))
		}
		json.NewEncoder(w).Encode(model.PatientSearchResult{Page: 1, Limit: 10})
	})
	defer srv.Close()

	if _, err := client.SearchPatients(context.Background(), "juan", -3, 0); err != nil {
		t.Fatalf("SearchPatients: %v", err)
	}
}

func TestPathEscaping(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/pacientes/a%2Fb" {
			t.Errorf("unexpected escaped path %q", r.URL.EscapedPath())
		}
		json.NewEncoder(w).Encode(model.Patient{ID: "a/b"})
	})
	defer srv.Close()

	if _, err := client.GetPatient(context.Background(), "a/b"); err != nil {
		t.Fatalf("GetPatient: %v", err)
	}
}
