package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ocmhub/internal/archive"
	"ocmhub/internal/core"
	"ocmhub/pkg/domain"
)

const maxBodyBytes = 1 << 20

// warning is the wire form of a non-blocking rule violation.
type warning struct {
	Rule     string            `json:"rule"`
	Entity   domain.EntityType `json:"entity"`
	EntityID string            `json:"entityId,omitempty"`
	Message  string            `json:"message"`
}

// mutationResponse wraps the entity returned by a write.
type mutationResponse struct {
	Data     any       `json:"data,omitempty"`
	Version  uint64    `json:"version"`
	Warnings []warning `json:"warnings,omitempty"`
}

// badRequestError marks client payload problems found inside a mutator.
type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps store errors onto HTTP status codes.
func statusFor(err error) int {
	var bad badRequestError
	switch {
	case errors.As(err, &bad), domain.IsValidation(err), errors.Is(err, archive.ErrInvalidMatch):
		return http.StatusBadRequest
	case domain.IsNotFound(err), errors.Is(err, archive.ErrNoArchives):
		return http.StatusNotFound
	case domain.IsRuleViolation(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func (h *Handler) respond(w http.ResponseWriter, status int, data any, res core.Result) {
	out := mutationResponse{Data: data, Version: h.svc.Version()}
	for _, v := range res.Violations {
		if v.Severity != core.SeverityWarn {
			continue
		}
		out.Warnings = append(out.Warnings, warning{Rule: v.Rule, Entity: v.Entity, EntityID: v.EntityID, Message: v.Message})
	}
	writeJSON(w, status, out)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, badRequestError{msg: fmt.Sprintf("read body: %v", err)}
	}
	return body, nil
}

// decodeBody decodes a JSON object body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequestError{msg: fmt.Sprintf("invalid request payload: %v", err)}
	}
	return nil
}

// mergeMutator returns a mutator that overlays the fields present in a JSON
// object body onto the stored entity.
func mergeMutator[T any](body []byte) (func(*T) error, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, badRequestError{msg: fmt.Sprintf("invalid request payload: %v", err)}
	}
	return func(cur *T) error {
		if err := json.Unmarshal(body, cur); err != nil {
			return badRequestError{msg: fmt.Sprintf("invalid request payload: %v", err)}
		}
		return nil
	}, nil
}
