package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/flamego/flamego"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pattarin/bloodlens/agent/agents/crew"
	contractx "github.com/pattarin/bloodlens/agent/contract"
	"github.com/pattarin/bloodlens/store"
)

const (
	defaultAnalyzeQuery = "Provide a comprehensive analysis of my blood test report including " +
		"medical interpretation, nutritional recommendations, and exercise planning."
	defaultVerifyQuery  = "Verify if this document is a valid blood test report and extract key biomarkers."
	defaultMedicalQuery = "Provide medical interpretation of my blood test results."
)

func (s *Server) handleRoot(c flamego.Context) {
	writeJSON(c.ResponseWriter(), http.StatusOK, map[string]any{
		"message": "Blood Test Report Analyser API is running",
	})
}

func (s *Server) handleHealth(c flamego.Context) {
	writeJSON(c.ResponseWriter(), http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "Blood Test Report Analyser",
		"version":   "1.0.0",
		"endpoints": []string{"/analyze", "/verify", "/medical-analysis"},
		"data_dir":  s.dataDir,
	})
}

func (s *Server) handleAnalyze(c flamego.Context) {
	s.handleUpload(c, contractx.ModeFull, defaultAnalyzeQuery)
}

func (s *Server) handleVerify(c flamego.Context) {
	s.handleUpload(c, contractx.ModeVerification, defaultVerifyQuery)
}

func (s *Server) handleMedicalAnalysis(c flamego.Context) {
	s.handleUpload(c, contractx.ModeMedical, defaultMedicalQuery)
}

func (s *Server) handleUpload(c flamego.Context, mode contractx.AnalysisMode, defaultQuery string) {
	w := c.ResponseWriter()
	r := c.Request().Request
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "file form field is required")
		return
	}
	defer file.Close()

	fileID := uuid.NewString()
	filename := header.Filename
	if filename == "" {
		filename = "uploaded_file.pdf"
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	tempPath := filepath.Join(s.dataDir, "upload_"+fileID+ext)

	if err := saveUpload(file, tempPath); err != nil {
		log.Error().Err(err).Str("path", tempPath).Msg("save upload")
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	// The upload is consumed exactly once; remove it when the crew is done.
	defer os.Remove(tempPath)

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		query = defaultQuery
	}

	result, err := s.crew.Analyze(r.Context(), crew.AnalysisRequest{
		FileID:   fileID,
		Filename: filename,
		FilePath: tempPath,
		Query:    query,
		Mode:     mode,
	})
	if err != nil {
		status, msg := mapAnalysisError(err)
		log.Error().Err(err).Str("file_id", fileID).Msg("analysis failed")
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetResult(c flamego.Context) {
	w := c.ResponseWriter()
	if s.results == nil {
		writeError(w, http.StatusNotFound, "result store is not configured")
		return
	}

	fileID := c.Param("id")
	result, err := s.results.Get(c.Request().Context(), fileID)
	if err != nil {
		if errors.Is(err, store.ErrResultNotFound) {
			writeError(w, http.StatusNotFound, "result not found")
			return
		}
		log.Error().Err(err).Str("file_id", fileID).Msg("load result")
		writeError(w, http.StatusInternalServerError, "failed to load result")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func saveUpload(src io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Each extractor error kind maps to its own client-facing status.
func mapAnalysisError(err error) (int, string) {
	switch {
	case errors.Is(err, contractx.ErrReportFormat):
		return http.StatusBadRequest, "file must be a PDF"
	case errors.Is(err, contractx.ErrReportNotFound):
		return http.StatusNotFound, "report file not found"
	case errors.Is(err, contractx.ErrReportExtract):
		return http.StatusUnprocessableEntity, "failed to extract report text"
	case errors.Is(err, crew.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid analysis request"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
