// Handler for miscellaneous endpoints such as health check

package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/logger"
	"github.com/yumyai/omicsatlas/pkg/handler/request"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

func (dbctx *DBContext) HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Database:  "ok",
		Timestamp: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	if err := dbctx.DB.PingContext(ctx); err != nil {
		logger.Warn("Health check could not reach database", zap.Error(err))
		response.Health = "degraded"
		response.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

type VectorQueryResponse struct {
	Results []any `json:"results"`
}

// VectorQuery is a placeholder for similarity search and always answers
// with no results.
func (dbctx *DBContext) VectorQuery(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength != 0 {
		var body request.VectorQueryRequest
		if err := request.DecodeJSON(w, r, &body); err != nil {
			fail(w, r, err, "", "vector_query")
			return
		}
	}
	writeJSON(w, http.StatusOK, VectorQueryResponse{Results: []any{}})
}
