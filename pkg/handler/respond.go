package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/logger"
	"github.com/yumyai/omicsatlas/pkg/handler/request"
	"github.com/yumyai/omicsatlas/pkg/middle"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/render"
)

const (
	msgInternal = "Internal server error"
	msgConflict = "Profile was modified by another request, reload and retry"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, render.ErrorResponse{Error: msg})
}

// fail maps err onto a response. Storage failures are logged with the
// operation and identifiers, and the client only sees a generic message.
func fail(w http.ResponseWriter, r *http.Request, err error, notFound string, op string, fields ...zap.Field) {

	var verr *request.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrCrossOrganism):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, model.ErrVersionConflict):
		writeError(w, http.StatusConflict, msgConflict)
	default:
		log := middle.Logger(r.Context(), logger.L())
		log.Error("Request failed", append(fields, zap.String("op", op), zap.Error(err))...)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
