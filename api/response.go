package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goliatone/go-jobboard/pagination"
	"github.com/goliatone/go-jobboard/store"
	"go.uber.org/zap"
)

var errMalformedBody = errors.New("malformed request body")

type dataEnvelope struct {
	Data json.RawMessage  `json:"data"`
	Meta *pagination.Meta `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

type errorsEnvelope struct {
	Errors []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data json.RawMessage) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

// writeError maps service errors to responses. Internal details never
// reach the client; unexpected errors are logged instead.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var verr *store.ValidationError
	switch {
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorEnvelope{Error: "Record not found"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorsEnvelope{Errors: verr.FullMessages()})
	case errors.Is(err, errMalformedBody):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: "Malformed request body"})
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: "Internal server error"})
	}
}
