package model

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const articleColumns = `a.id, a.title, a.journal, a.doi, a.url, a.summary, a.published_date`

type ArticleFilter struct {
	GeneID string
}

// ListArticles returns the articles linked to a gene, most relevant first,
// or every article when no gene is given.
func ListArticles(ctx context.Context, q sqlx.ExtContext, f ArticleFilter) ([]GeneArticle, error) {

	articles := []GeneArticle{}

	if f.GeneID == "" {
		err := sqlx.SelectContext(ctx, q, &articles,
			`SELECT `+articleColumns+`, '' AS gene_id, NULL AS key_finding, NULL AS relevance_score
			 FROM articles a ORDER BY a.title`)
		if err != nil {
			return nil, fmt.Errorf("select articles: %w", err)
		}
		return articles, nil
	}

	err := sqlx.SelectContext(ctx, q, &articles, rebind(q,
		`SELECT `+articleColumns+`, ga.gene_id, ga.key_finding, ga.relevance_score
		 FROM gene_articles ga JOIN articles a ON a.id = ga.article_id
		 WHERE ga.gene_id = ?
		 ORDER BY COALESCE(ga.relevance_score, 0) DESC, a.title`), f.GeneID)
	if err != nil {
		return nil, fmt.Errorf("select articles of gene %s: %w", f.GeneID, err)
	}
	return articles, nil
}
