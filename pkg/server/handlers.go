package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lepicodon/yamalert/pkg/promcheck"
	"github.com/lepicodon/yamalert/pkg/promcheck/promql"
	"github.com/lepicodon/yamalert/pkg/store"
)

// templateListItem is one catalogue entry: template metadata plus the rule
// counts derived from its content. The raw content is omitted from listings.
type templateListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	JobCategory string `json:"job_category"`
	SensorType  string `json:"sensor_type"`
	Description string `json:"description"`
	store.Summary
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// templateRequest is the create/update payload.
type templateRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	JobCategory string `json:"job_category"`
	SensorType  string `json:"sensor_type"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// validateYAMLRequest is the document validation payload.
type validateYAMLRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// validatePromQLRequest is the expression validation payload.
type validatePromQLRequest struct {
	Expr string `json:"expr"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// handleListTemplates serves GET /api/templates.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.storage.List(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "listing templates", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	items := make([]templateListItem, 0, len(templates))
	for _, t := range templates {
		items = append(items, templateListItem{
			ID:          t.ID,
			Name:        t.Name,
			Type:        t.Type,
			JobCategory: t.JobCategory,
			SensorType:  t.SensorType,
			Description: t.Description,
			Summary:     store.Summarize(t.Content),
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, items)
}

// handleGetTemplate serves GET /api/template/{id}.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTemplate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handleCreateTemplate serves POST /api/template.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.validTemplateRequest(w, &req) {
		return
	}

	t := &store.Template{
		Name:        req.Name,
		Type:        req.Type,
		JobCategory: req.JobCategory,
		SensorType:  req.SensorType,
		Description: req.Description,
		Content:     req.Content,
	}
	if err := s.storage.Create(r.Context(), t); err != nil {
		s.logger.ErrorContext(r.Context(), "creating template", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	s.logger.InfoContext(r.Context(), "template created", "id", t.ID, "name", t.Name)
	writeJSON(w, http.StatusCreated, t)
}

// handleUpdateTemplate serves POST /api/template/{id}.
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadTemplate(w, r)
	if !ok {
		return
	}

	var req templateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !s.validTemplateRequest(w, &req) {
		return
	}

	existing.Name = req.Name
	existing.Type = req.Type
	existing.JobCategory = req.JobCategory
	existing.SensorType = req.SensorType
	existing.Description = req.Description
	existing.Content = req.Content

	if err := s.storage.Update(r.Context(), existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "updating template", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	s.logger.InfoContext(r.Context(), "template updated", "id", existing.ID, "name", existing.Name)
	writeJSON(w, http.StatusOK, existing)
}

// handleDeleteTemplate serves DELETE /api/template/{id}.
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.storage.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "deleting template", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	s.logger.InfoContext(r.Context(), "template deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDownloadTemplate serves GET /api/template/{id}/download as a YAML
// attachment named after the template.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTemplate(w, r)
	if !ok {
		return
	}

	ext := "rules.yml"
	if t.Type == "alertmanager" {
		ext = "alertmanager.yml"
	}
	filename := strings.ReplaceAll(fmt.Sprintf("%s.%s", t.Name, ext), " ", "_")

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(t.Content))
}

// handleValidateYAML serves POST /api/validate/yaml.
func (s *Server) handleValidateYAML(w http.ResponseWriter, r *http.Request) {
	var req validateYAMLRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if max := s.validation.MaxDocumentBytes; max > 0 && len(req.Content) > max {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("document exceeds %d bytes", max))
		return
	}

	kind := promcheck.Kind(req.Type)
	if req.Type == "" {
		kind = promcheck.KindRules
	} else if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid type")
		return
	}

	start := time.Now()
	report := promcheck.ValidateDocumentWith([]byte(req.Content), kind, s.validation.ScanOptions())
	if s.metrics != nil {
		s.metrics.RecordValidation(kind, report, time.Since(start))
	}

	writeJSON(w, http.StatusOK, report)
}

// handleValidatePromQL serves POST /api/validate/promql.
func (s *Server) handleValidatePromQL(w http.ResponseWriter, r *http.Request) {
	var req validatePromQLRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if max := s.validation.MaxExpressionBytes; max > 0 && len(req.Expr) > max {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("expression exceeds %d bytes", max))
		return
	}

	result := promql.ScanWith(req.Expr, s.validation.ScanOptions())
	if s.metrics != nil {
		s.metrics.RecordExpressionScan(result.Valid)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleHealthz serves GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.storage.List(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadTemplate(w http.ResponseWriter, r *http.Request) (*store.Template, bool) {
	id := r.PathValue("id")
	t, err := s.storage.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "loading template", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "storage error")
		return nil, false
	}
	return t, true
}

func (s *Server) validTemplateRequest(w http.ResponseWriter, req *templateRequest) bool {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if len(req.Name) > 120 {
		req.Name = req.Name[:120]
	}
	if !promcheck.Kind(req.Type).Valid() {
		writeError(w, http.StatusBadRequest, "invalid type")
		return false
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return false
	}
	if max := s.validation.MaxDocumentBytes; max > 0 && len(req.Content) > max {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("document exceeds %d bytes", max))
		return false
	}
	return true
}
