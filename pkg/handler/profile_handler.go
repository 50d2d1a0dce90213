package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/logger"
	"github.com/yumyai/omicsatlas/pkg/handler/request"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/render"
)

const msgProfileNotFound = "Profile not found"

func (dbctx *DBContext) GetProfile(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	if !dbctx.requireOrganism(w, r, id) {
		return
	}

	profile, err := model.GetProfile(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgProfileNotFound, "get_profile", zap.String("organism_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.Profile(*profile)})
}

// UpsertProfile answers 201 when the profile was created and 200 when an
// existing one moved to the next version.
func (dbctx *DBContext) UpsertProfile(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")

	var body request.ProfileRequest
	if err := request.DecodeJSON(w, r, &body); err != nil {
		fail(w, r, err, "", "upsert_profile", zap.String("organism_id", id))
		return
	}
	if err := body.Validate(); err != nil {
		fail(w, r, err, "", "upsert_profile", zap.String("organism_id", id))
		return
	}

	profile, created, err := model.UpsertProfile(r.Context(), dbctx.DB, id, body.Input(), body.Meta())
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "upsert_profile", zap.String("organism_id", id))
		return
	}

	logger.Info("Profile saved",
		zap.String("organism_id", id),
		zap.Int("version", profile.VersionNumber),
		zap.Bool("created", created),
	)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, render.DataResponse{Data: render.Profile(*profile)})
}

func (dbctx *DBContext) ListProfileHistory(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	if !dbctx.requireOrganism(w, r, id) {
		return
	}

	history, err := model.ListProfileHistory(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgOrganismNotFound, "list_profile_history", zap.String("organism_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.Histories(history)})
}
