package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/handler/request"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/render"
	"github.com/yumyai/omicsatlas/pkg/secretion"
)

const (
	msgSystemNotFound = "Secretion system not found"

	defaultSecretionLimit = 25
)

func (dbctx *DBContext) ListSecretedProteins(w http.ResponseWriter, r *http.Request) {

	filter, err := request.SecretionFilter(r.URL.Query(), defaultSecretionLimit)
	if err != nil {
		fail(w, r, err, "", "list_secreted_proteins")
		return
	}

	proteins, total, err := model.ListSecretedProteins(r.Context(), dbctx.DB, filter)
	if err != nil {
		fail(w, r, err, msgProteinNotFound, "list_secreted_proteins",
			zap.String("organism_id", filter.OrganismID),
			zap.String("pathway", filter.Pathway),
		)
		return
	}

	writeJSON(w, http.StatusOK, render.List(render.ProteinSummaries(proteins), filter.Page, total))
}

func (dbctx *DBContext) ClassifyProduct(w http.ResponseWriter, r *http.Request) {

	var body request.ClassifyRequest
	if err := request.DecodeJSON(w, r, &body); err != nil {
		fail(w, r, err, "", "classify_product")
		return
	}
	if err := body.Validate(); err != nil {
		fail(w, r, err, "", "classify_product")
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: secretion.Classify(body.Product, body.LocusTag)})
}

func (dbctx *DBContext) GetSecretionSystem(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	system, err := model.GetSecretionSystem(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgSystemNotFound, "get_secretion_system", zap.String("secretion_system_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.SecretionSystem(*system)})
}
