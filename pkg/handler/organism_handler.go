package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/handler/params"
	"github.com/yumyai/omicsatlas/pkg/handler/request"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/render"
)

const (
	msgOrganismNotFound = "Organism not found"

	defaultGeneLimit = 50
)

func (dbctx *DBContext) ListOrganisms(w http.ResponseWriter, r *http.Request) {

	organisms, err := model.ListOrganisms(r.Context(), dbctx.DB)
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "list_organisms")
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.OrganismSummaries(organisms)})
}

func (dbctx *DBContext) GetOrganism(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	organism, err := model.GetOrganism(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "get_organism", zap.String("organism_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.OrganismDetail(*organism)})
}

// ListOrganismGenes is ListGenes scoped to the organism in the path.
func (dbctx *DBContext) ListOrganismGenes(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	if !dbctx.requireOrganism(w, r, id) {
		return
	}

	filter := request.GeneFilter(r.URL.Query(), id, defaultGeneLimit)
	genes, total, err := model.ListGenes(r.Context(), dbctx.DB, filter)
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "list_organism_genes", zap.String("organism_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.List(render.GeneSummaries(genes), filter.Page, total))
}

func (dbctx *DBContext) OrganismStats(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	stats, err := model.OrganismStats(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "organism_stats", zap.String("organism_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.Stats(id, stats)})
}

func (dbctx *DBContext) ListOrganismSecretionSystems(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	raw := r.URL.Query().Get("type")
	systemType := params.ParsePathway(raw)
	if systemType == params.PathwayUnknown {
		fail(w, r, request.Invalid("unknown secretion system type %q", raw), "", "list_secretion_systems")
		return
	}
	if !dbctx.requireOrganism(w, r, id) {
		return
	}

	systems, err := model.ListSecretionSystems(r.Context(), dbctx.DB, id, systemType.String())
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "list_secretion_systems", zap.String("organism_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.SecretionSystems(systems)})
}

// requireOrganism answers 404 and returns false when id is unknown.
func (dbctx *DBContext) requireOrganism(w http.ResponseWriter, r *http.Request, id string) bool {
	ok, err := model.OrganismExists(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "organism_exists", zap.String("organism_id", id))
		return false
	}
	if !ok {
		writeError(w, http.StatusNotFound, msgOrganismNotFound)
		return false
	}
	return true
}
