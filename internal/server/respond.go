package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sells-group/riskpilot/internal/model"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed or invalid request body. Its message is safe
// to return to the client.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("server: request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// classify maps pipeline errors to an HTTP status and a client message.
// Internal detail never reaches the client for unclassified failures.
func classify(err error) (int, string) {
	var rerr *requestError
	switch {
	case errors.As(err, &rerr):
		return http.StatusBadRequest, rerr.msg
	case errors.Is(err, model.ErrCompanyNotFound):
		return http.StatusNotFound, model.ErrCompanyNotFound.Error()
	case errors.Is(err, model.ErrInvalidSuggestionFormat):
		return http.StatusBadGateway, model.ErrInvalidSuggestionFormat.Error()
	case errors.Is(err, model.ErrInvalidScoreFormat):
		return http.StatusBadGateway, model.ErrInvalidScoreFormat.Error()
	case errors.Is(err, model.ErrOracleUnavailable):
		return http.StatusBadGateway, model.ErrOracleUnavailable.Error()
	case errors.Is(err, model.ErrUpstreamUnavailable):
		return http.StatusBadGateway, model.ErrUpstreamUnavailable.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	}
	return http.StatusInternalServerError, "internal server error"
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &requestError{msg: "invalid request body"}
	}
	if err := s.validate.Struct(dst); err != nil {
		return &requestError{msg: describe(err)}
	}
	return nil
}

// describe names the failing fields by their JSON keys.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	names := make([]string, len(verrs))
	for i, fe := range verrs {
		names[i] = fe.Field()
	}
	return "invalid or missing fields: " + strings.Join(names, ", ")
}

// jsonName reports struct fields by their JSON key in validation errors.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
