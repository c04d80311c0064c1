package opd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func setupHandler() (*Handler, *Service) {
	svc, _, _, _ := newTestService()
	return NewHandler(svc), svc
}

func TestHandler_Register_JSON(t *testing.T) {
	h, _ := setupHandler()

	body := `{"name":"Asha Rao","age":34,"phone":"9876500001","department":"Cardiology"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/patient-registration", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["success"] != true {
		t.Error("expected success true")
	}
	token, _ := resp["token"].(string)
	if !strings.HasPrefix(token, "TOK-") {
		t.Errorf("expected TOK- token, got %q", token)
	}
}

func TestHandler_Register_FormRedirects(t *testing.T) {
	h, _ := setupHandler()

	form := url.Values{}
	form.Set("name", "Ravi Kumar")
	form.Set("age", "40")
	form.Set("phone", "9876500002")
	form.Set("department", "ENT")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/patient-registration", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/registration-success?token=TOK-") {
		t.Errorf("expected redirect to success page with token, got %q", loc)
	}
}

func TestHandler_Register_InvalidJSON(t *testing.T) {
	h, _ := setupHandler()

	body := `{"name":"","age":0}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/patient-registration", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != false {
		t.Error("expected success false")
	}
	if resp["message"] == "" {
		t.Error("expected a message")
	}
}

func TestHandler_RegistrationSuccess(t *testing.T) {
	h, _ := setupHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/registration-success?token=TOK-00042", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.RegistrationSuccess(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TOK-00042") {
		t.Error("expected token echoed back")
	}
}

func TestHandler_Queue(t *testing.T) {
	h, svc := setupHandler()
	svc.Register(context.Background(), RegistrationInput{
		Name: "Asha", Age: 30, Phone: "98765", Department: "ENT",
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/opd-queue?department=ENT", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Queue(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var board QueueBoard
	if err := json.Unmarshal(rec.Body.Bytes(), &board); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(board.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(board.Items))
	}
	if board.Counts.Waiting != 1 {
		t.Errorf("expected 1 waiting, got %d", board.Counts.Waiting)
	}
}

func TestHandler_Action_Success(t *testing.T) {
	h, svc := setupHandler()
	result, err := svc.Register(context.Background(), RegistrationInput{
		Name: "Asha", Age: 30, Phone: "98765", Department: "ENT",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(result.PatientID.String())

	if err := h.action(ActionStart)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != true {
		t.Error("expected success true")
	}
}

func TestHandler_Action_InvalidID(t *testing.T) {
	h, _ := setupHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.action(ActionStart)(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_Action_MissingPatient(t *testing.T) {
	h, _ := setupHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2a9e1f05-90ae-4b60-8b9f-1f0cbbf7c2de")

	if err := h.action(ActionComplete)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != false {
		t.Error("expected success false")
	}
}

func TestHandler_QueueStatusByToken_MissingParams(t *testing.T) {
	h, _ := setupHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/queue-status-by-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.QueueStatusByToken(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_QueueStatusByToken_Found(t *testing.T) {
	h, svc := setupHandler()
	result, err := svc.Register(context.Background(), RegistrationInput{
		Name: "Asha", Age: 30, Phone: "98765", Department: "ENT",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/queue-status-by-token?token="+result.Token, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.QueueStatusByToken(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var st TokenStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !st.Found {
		t.Error("expected found true")
	}
}
