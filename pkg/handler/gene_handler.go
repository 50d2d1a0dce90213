package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yumyai/omicsatlas/pkg/handler/request"
	"github.com/yumyai/omicsatlas/pkg/model"
	"github.com/yumyai/omicsatlas/pkg/render"
)

const msgGeneNotFound = "Gene not found"

func (dbctx *DBContext) ListGenes(w http.ResponseWriter, r *http.Request) {

	filter := request.GeneFilter(r.URL.Query(), "", defaultGeneLimit)
	genes, total, err := model.ListGenes(r.Context(), dbctx.DB, filter)
	if err != nil {
		fail(w, r, err, msgGeneNotFound, "list_genes",
			zap.String("organism_id", filter.OrganismID),
			zap.String("chromosome_id", filter.ChromosomeID),
			zap.String("q", filter.Query),
		)
		return
	}

	writeJSON(w, http.StatusOK, render.List(render.GeneSummaries(genes), filter.Page, total))
}

func (dbctx *DBContext) GetGene(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	gene, err := model.GetGene(r.Context(), dbctx.DB, id)
	if err != nil {
		fail(w, r, err, msgGeneNotFound, "get_gene", zap.String("gene_id", id))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.GeneDetail(*gene)})
}

func (dbctx *DBContext) ListArticles(w http.ResponseWriter, r *http.Request) {

	geneID := r.URL.Query().Get("geneId")
	articles, err := model.ListArticles(r.Context(), dbctx.DB, model.ArticleFilter{GeneID: geneID})
	if err != nil {
		fail(w, r, err, msgGeneNotFound, "list_articles", zap.String("gene_id", geneID))
		return
	}

	writeJSON(w, http.StatusOK, render.DataResponse{Data: render.Articles(articles)})
}
