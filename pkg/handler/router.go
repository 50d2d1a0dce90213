package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/middle"
)

// NewRouter wires every API route. Metrics may be nil, in which case
// /metrics is not served.
func NewRouter(dbctx *DBContext, metrics *middle.Metrics, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middle.RequestIDMiddleware(log))
	r.Use(middle.LoggingMiddleware(log))
	if metrics != nil {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", dbctx.HealthCheck)

		r.Route("/organisms", func(r chi.Router) {
			r.Get("/", dbctx.ListOrganisms)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", dbctx.GetOrganism)
				r.Get("/genes", dbctx.ListOrganismGenes)
				r.Get("/stats", dbctx.OrganismStats)
				r.Get("/secretion-systems", dbctx.ListOrganismSecretionSystems)
				r.Get("/profile", dbctx.GetProfile)
				r.Post("/profile", dbctx.UpsertProfile)
				r.Get("/profile/history", dbctx.ListProfileHistory)
			})
		})

		r.Get("/genes", dbctx.ListGenes)
		r.Get("/genes/{id}", dbctx.GetGene)

		r.Get("/proteins", dbctx.ListProteins)
		r.Get("/proteins/{id}", dbctx.GetProtein)
		r.Get("/proteins/{id}/analysis", dbctx.ProteinAnalysis)
		r.Post("/analysis/protein", dbctx.AnalyzeSequence)

		r.Get("/secretion/proteins", dbctx.ListSecretedProteins)
		r.Post("/secretion/classify", dbctx.ClassifyProduct)
		r.Get("/secretion-systems/{id}", dbctx.GetSecretionSystem)

		r.Get("/articles", dbctx.ListArticles)

		r.Post("/chat", dbctx.Chat)
		r.Post("/vector/query", dbctx.VectorQuery)
	})

	return r
}
