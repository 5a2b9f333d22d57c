package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"

	apperrors "talentflow/internal/errors"
	"talentflow/internal/types"
)

// rootHandler is the liveness/info endpoint. It never touches the classifier.
func (s *Server) rootHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		API:     "Talent Flow API",
		Version: s.Version,
		Status:  "online",
	})
}

// classifyHandler decodes one resume and returns its classification.
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var resume types.ResumeRecord
	if err := parseJSONRequest(r, &resume); err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeErrorResponse(w, "Invalid request", err.Error(), status)
		return
	}

	result, err := s.Classifier.Classify(r.Context(), &resume)
	if err != nil {
		s.writeClassifyError(w, r, resume.UserID, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeClassifyError maps a classification failure to a status code.
func (s *Server) writeClassifyError(w http.ResponseWriter, r *http.Request, userID string, err error) {
	if appErr, ok := apperrors.As(err); ok && appErr.Type == apperrors.ErrorTypeValidation {
		writeErrorResponse(w, "Validation failed", appErr.Message, http.StatusUnprocessableEntity)
		return
	}

	s.Logger.LogError(err, "Classification request failed",
		"user_id", userID,
		"request_id", requestIDFrom(r.Context()))

	message := "An internal error occurred while classifying the resume"
	if s.Debug {
		message = err.Error()
	}
	writeErrorResponse(w, "Classification failed", message, http.StatusInternalServerError)
}

// healthHandler reports artifact, cache and certificate state
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	summary := s.Classifier.Summary()
	response := map[string]any{
		"status":  "healthy",
		"service": "talentflow",
		"version": s.Version,
		"artifacts": map[string]any{
			"version": summary.Version,
			"width":   summary.Width,
			"labels":  summary.Labels,
		},
		"cache": s.Classifier.CacheStats(),
	}

	status := http.StatusOK
	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
		if healthy, ok := certStatus["healthy"].(bool); ok && !healthy {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, response)
}

// checkCertificateHealth returns nil when TLS is not in use.
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}
	return s.CertificateManager.Status()
}

// statsHandler exposes rate limiting and cache statistics
func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{
		"service": "talentflow",
		"version": s.Version,
		"cache":   s.Classifier.CacheStats(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes): %w", maxBytesErr.Limit, err)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
