package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/analysis"
	"github.com/yumyai/omicsatlas/pkg/handler/request"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/render"
)

const (
	msgProteinNotFound = "Protein not found"

	defaultProteinLimit = 50
)

type AnalysisPayload struct {
	ProteinID    *string `json:"proteinId"`
	Accession    *string `json:"accession"`
	AnalysisType string  `json:"analysisType"`
	Result       any     `json:"result"`
}

func (dbctx *DBContext) ListProteins(w http.ResponseWriter, r *http.Request) {

	filter := request.ProteinFilter(r.URL.Query(), defaultProteinLimit)
	proteins, total, err := model.ListProteins(r.Context(), dbctx.DB, filter)
	if err != nil {
		fail(w, r, err, msgProteinNotFound, "list_proteins",
			zap.String("gene_id", filter.GeneID),
			zap.String("organism_id", filter.OrganismID),
		)
		return
	}

	writeJSON(w, http.StatusOK, render.List(render.ProteinSummaries(proteins), filter.Page, total))
}

func (dbctx *DBContext) GetProtein(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	protein, err := model.GetProtein(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgProteinNotFound, "get_protein", zap.String("protein_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.ProteinDetail(*protein)})
}

// ProteinAnalysis runs the analyzer over a stored protein's sequence.
func (dbctx *DBContext) ProteinAnalysis(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	view, err := request.AnalysisType(r.URL.Query().Get("analysisType"))
	if err != nil {
		fail(w, r, err, "", "protein_analysis")
		return
	}

	protein, err := model.GetProtein(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgProteinNotFound, "protein_analysis", zap.String("protein_id", id))
		return
	}
	if protein.Sequence == nil || *protein.Sequence == "" {
		writeError(w, http.StatusBadRequest, "Protein has no sequence to analyze")
		return
	}

	result, err := analysis.Select(analysis.Analyze(*protein.Sequence), view.String())
	if err != nil {
		fail(w, r, request.Invalid("%s", err.Error()), "", "protein_analysis")
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: AnalysisPayload{
		ProteinID:    &protein.ID,
		Accession:    &protein.Accession,
		AnalysisType: view.String(),
		Result:       result,
	}})
}

// AnalyzeSequence runs the analyzer over a posted sequence.
func (dbctx *DBContext) AnalyzeSequence(w http.ResponseWriter, r *http.Request) {

	var body request.AnalysisRequest
	if err := request.DecodeJSON(w, r, &body); err != nil {
		fail(w, r, err, "", "analyze_sequence")
		return
	}
	if err := body.Validate(); err != nil {
		fail(w, r, err, "", "analyze_sequence")
		return
	}
	view, err := request.AnalysisType(body.AnalysisType)
	if err != nil {
		fail(w, r, err, "", "analyze_sequence")
		return
	}

	result, err := analysis.Select(analysis.Analyze(body.Sequence), view.String())
	if err != nil {
		fail(w, r, request.Invalid("%s", err.Error()), "", "analyze_sequence")
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: AnalysisPayload{
		AnalysisType: view.String(),
		Result:       result,
	}})
}
