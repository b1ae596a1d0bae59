package portfolios

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, userID string, eraser *Eraser) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	svc := &Service{Repo: repo}
	if eraser == nil {
		eraser = &Eraser{Repo: repo, Views: &fakeViewEvents{}, Resumes: &fakeResumeFiles{}}
	} else {
		eraser.Repo = repo
	}
	h := NewHandler(svc, eraser)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	authed := api.Group("")
	authed.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userId", userID)
		}
		c.Next()
	})
	h.RegisterRoutes(authed)
	return r, svc
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Error
}

func TestHandlerCreateAndGet(t *testing.T) {
	r, _ := newTestRouter(t, "u1", nil)

	resp := doJSON(r, http.MethodPost, "/api/v1/portfolios", gin.H{
		"templateId": "creative",
		"content":    gin.H{"name": "Ada", "skills": []string{"math"}},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created PortfolioResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Name != "Ada" || created.TemplateID != "creative" {
		t.Fatalf("unexpected portfolio: %+v", created)
	}

	get := doJSON(r, http.MethodGet, "/api/v1/portfolios/"+created.ID, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.Code)
	}
}

func TestHandlerPublicGetHidesResumeID(t *testing.T) {
	r, svc := newTestRouter(t, "u1", nil)
	svc.Resumes = fakeOwnership{owned: map[string]string{"f1": "u1"}}

	resp := doJSON(r, http.MethodPost, "/api/v1/portfolios", gin.H{
		"resumeId": "f1",
		"content":  gin.H{"name": "Ada"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created PortfolioResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ResumeID != "f1" {
		t.Fatalf("owner response should carry resumeId, got %+v", created)
	}

	get := doJSON(r, http.MethodGet, "/api/v1/portfolios/"+created.ID, nil)
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(get.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["resumeId"]; ok {
		t.Fatalf("public response leaked resumeId: %v", body)
	}
}

func TestHandlerCreateRejectsForeignResume(t *testing.T) {
	r, svc := newTestRouter(t, "attacker", nil)
	svc.Resumes = fakeOwnership{owned: map[string]string{"f1": "victim"}}

	resp := doJSON(r, http.MethodPost, "/api/v1/portfolios", gin.H{
		"resumeId": "f1",
		"content":  gin.H{"name": "Mallory"},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerCreateRejectsUnknownTemplate(t *testing.T) {
	r, _ := newTestRouter(t, "u1", nil)

	resp := doJSON(r, http.MethodPost, "/api/v1/portfolios", gin.H{
		"templateId": "neon",
		"content":    gin.H{"name": "Ada"},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != `unknown templateId "neon"` {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHandlerGetMissing(t *testing.T) {
	r, _ := newTestRouter(t, "", nil)

	resp := doJSON(r, http.MethodGet, "/api/v1/portfolios/nope", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "Portfolio not found" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHandlerDeleteRequiresID(t *testing.T) {
	r, _ := newTestRouter(t, "u1", nil)

	resp := doJSON(r, http.MethodPost, "/api/v1/portfolios/delete", gin.H{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "Portfolio ID is required" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHandlerDeleteUnknown(t *testing.T) {
	r, _ := newTestRouter(t, "u1", nil)

	resp := doJSON(r, http.MethodPost, "/api/v1/portfolios/delete", gin.H{"portfolioId": "missing"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if msg := decodeError(t, resp); msg != "Portfolio not found" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestHandlerDeleteReportsCleanupSteps(t *testing.T) {
	eraser := &Eraser{Views: &fakeViewEvents{err: errors.New("offline")}, Resumes: &fakeResumeFiles{}}
	r, svc := newTestRouter(t, "u1", eraser)

	p, err := svc.Create(t.Context(), CreateInput{UserID: "u1", Content: Content{Name: "Ada"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp := doJSON(r, http.MethodDelete, "/api/v1/portfolios/"+p.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body deleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Message != "Portfolio deleted successfully" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(body.Cleanup) != 1 || body.Cleanup[0].OK {
		t.Fatalf("expected failed view_events step, got %+v", body.Cleanup)
	}
}

func TestHandlerTemplates(t *testing.T) {
	r, _ := newTestRouter(t, "", nil)

	resp := doJSON(r, http.MethodGet, "/api/v1/templates", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var items []Template
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 templates, got %d", len(items))
	}
}
