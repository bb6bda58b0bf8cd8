package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/finreg-tools/corepqa/internal/corep"
	"github.com/finreg-tools/corepqa/internal/format"
)

type queryRequest struct {
	Question string `json:"question"`
}

// queryResponse is the presentation bundle: pure projections over the
// validated record.
type queryResponse struct {
	Table            []format.TableRow    `json:"table"`
	StructuredOutput corep.Record         `json:"structured_output"`
	TemplateExtract  []format.TemplateRow `json:"template_extract"`
	Summary          string               `json:"summary"`
	Answer           *string              `json:"answer"`
	Warnings         []string             `json:"warnings"`
	Sources          map[string][]string  `json:"sources"`
	RetrievedContext string               `json:"retrieved_context"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	result, err := s.pipeline.Run(r.Context(), req.Question)
	if err != nil {
		s.log.Error("pipeline failed", "error", err)
		jsonError(w, "query failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	rec := result.Record
	resp := queryResponse{
		Table:            format.Table(rec),
		StructuredOutput: rec,
		TemplateExtract:  format.TemplateExtract(rec),
		Summary:          format.Summary(rec),
		Answer:           rec.Answer.Ptr(),
		Warnings:         format.Warnings(rec),
		Sources:          format.Sources(rec),
		RetrievedContext: result.Context,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil || s.llm.Stats == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.llm.Model(),
		"stats": s.llm.Stats.Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
