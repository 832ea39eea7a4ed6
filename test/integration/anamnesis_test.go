package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/psyportal/psyportal/internal/domain/patient"
)

type anamnesisEnvelope struct {
	Message   string            `json:"message"`
	Anamnesis patient.Anamnesis `json:"anamnesis"`
}

func TestAnamnesisLifecycle(t *testing.T) {
	cl := newClinic(t)
	app := cl.app

	p := app.createPatient(t, cl.p1Token, map[string]any{"first_name": "Luis", "last_name": "Torres"})

	rec := app.do(t, http.MethodGet, "/api/patients/"+p.ID+"/anamnesis", cl.p1Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("anamnesis before creation = %d, want 404", rec.Code)
	}

	rec = app.do(t, http.MethodPost, "/api/patients/"+p.ID+"/anamnesis", cl.p1Token, anamnesisBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("create anamnesis = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[anamnesisEnvelope](t, rec)
	if created.Message != "Anamnesis created successfully" {
		t.Errorf("create message = %q", created.Message)
	}
	wantNumber := "HCL-" + p.ID[len(p.ID)-8:]
	if created.Anamnesis.HistoryNumber != wantNumber {
		t.Errorf("history number = %q, want %q", created.Anamnesis.HistoryNumber, wantNumber)
	}
	if created.Anamnesis.CreationDate != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("creation date = %q", created.Anamnesis.CreationDate)
	}
	if created.Anamnesis.CreatedBy != cl.p1.ID {
		t.Errorf("created_by = %q, want %q", created.Anamnesis.CreatedBy, cl.p1.ID)
	}

	// a rewrite replaces the content but keeps the identity fields
	body := anamnesisBody()
	body["interview_observations"] = "second interview"
	rec = app.do(t, http.MethodPut, "/api/patients/"+p.ID+"/anamnesis", cl.caToken, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update anamnesis = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[anamnesisEnvelope](t, rec)
	if updated.Message != "Anamnesis updated successfully" {
		t.Errorf("update message = %q", updated.Message)
	}
	if updated.Anamnesis.InterviewObservations != "second interview" {
		t.Errorf("observations = %q", updated.Anamnesis.InterviewObservations)
	}
	if updated.Anamnesis.HistoryNumber != created.Anamnesis.HistoryNumber {
		t.Error("history number must survive rewrites")
	}
	if updated.Anamnesis.CreationDate != created.Anamnesis.CreationDate {
		t.Error("creation date must survive rewrites")
	}
	if updated.Anamnesis.CreatedBy != cl.p1.ID {
		t.Errorf("created_by after rewrite = %q, want original author", updated.Anamnesis.CreatedBy)
	}

	rec = app.do(t, http.MethodGet, "/api/patients/"+p.ID+"/anamnesis", cl.p1Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get anamnesis = %d", rec.Code)
	}
	got := decode[map[string]patient.Anamnesis](t, rec)
	if got["anamnesis"].InterviewObservations != "second interview" {
		t.Error("get must return the latest content")
	}
}

func TestAnamnesisRequiresAllSections(t *testing.T) {
	cl := newClinic(t)
	app := cl.app

	p := app.createPatient(t, cl.p1Token, map[string]any{"first_name": "Mia", "last_name": "Vega"})

	body := anamnesisBody()
	delete(body, "conduct")
	rec := app.do(t, http.MethodPost, "/api/patients/"+p.ID+"/anamnesis", cl.p1Token, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("incomplete anamnesis = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	resp := decode[map[string]string](t, rec)
	if resp["detail"] != "field conduct is required" {
		t.Errorf("detail = %q", resp["detail"])
	}
}

func TestAnamnesisHonorsPatientAccess(t *testing.T) {
	cl := newClinic(t)
	app := cl.app

	p := app.createPatient(t, cl.p1Token, map[string]any{"first_name": "Nora", "last_name": "Silva"})

	rec := app.do(t, http.MethodPost, "/api/patients/"+p.ID+"/anamnesis", cl.p3Token, anamnesisBody())
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider create = %d, want 403", rec.Code)
	}
	rec = app.do(t, http.MethodGet, "/api/patients/"+p.ID+"/anamnesis", cl.p3Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider get = %d, want 403", rec.Code)
	}
}

func TestClinicalDocuments(t *testing.T) {
	cl := newClinic(t)
	app := cl.app

	p := app.createPatient(t, cl.p1Token, map[string]any{"first_name": "Omar", "last_name": "Paz"})

	rec := app.do(t, http.MethodPut, "/api/patients/"+p.ID+"/clinical-history", cl.p1Token, map[string]any{
		"chief_complaint": "difficulty concentrating at school",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("clinical history = %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decode[map[string]string](t, rec)["message"]; msg != "Clinical history updated successfully" {
		t.Errorf("clinical history message = %q", msg)
	}

	rec = app.do(t, http.MethodPut, "/api/patients/"+p.ID+"/diagnosis", cl.p1Token, map[string]any{
		"primary_diagnosis": "ADHD, combined presentation",
		"dsm5_codes":        []string{"314.01"},
		"severity":          "moderate",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("diagnosis = %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodPost, "/api/patients/"+p.ID+"/evaluations", cl.p1Token, map[string]any{
		"evaluation_type": "WISC-V",
		"evaluation_date": "2026-08-20",
		"results":         map[string]any{"fsiq": 104},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluation = %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodPost, "/api/patients/"+p.ID+"/progress-notes", cl.p1Token, map[string]any{
		"session_date":     "2026-08-25",
		"session_type":     "individual",
		"duration_minutes": 50,
		"progress":         "engaged well with the attention exercises",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("progress note = %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, http.MethodPost, "/api/patients/"+p.ID+"/progress-notes", cl.p1Token, map[string]any{
		"session_date": "2026-08-26",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("note without duration = %d, want 400", rec.Code)
	}

	rec = app.do(t, http.MethodGet, "/api/patients/"+p.ID, cl.p1Token, nil)
	got := decode[patient.Patient](t, rec)
	if got.ClinicalHistory == nil || got.ClinicalHistory.ChiefComplaint == "" {
		t.Error("clinical history not embedded in the patient record")
	}
	if got.Diagnosis == nil || got.Diagnosis.PrimaryDiagnosis == "" {
		t.Error("diagnosis not embedded in the patient record")
	}
	if len(got.Evaluations) != 1 || got.Evaluations[0].ID == "" {
		t.Errorf("evaluations = %+v", got.Evaluations)
	}
	if len(got.ProgressNotes) != 1 || got.ProgressNotes[0].CreatedBy != cl.p1.ID {
		t.Errorf("progress notes = %+v", got.ProgressNotes)
	}
}
