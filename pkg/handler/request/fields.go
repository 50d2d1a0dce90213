package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/yumyai/omicsatlas/pkg/handler/params"
	"github.com/yumyai/omicsatlas/pkg/model"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// ValidationError is a client mistake, answered with 400 and its message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PositiveIntFallback parses v, falling back on anything that is not a
// positive integer.
func PositiveIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// Page reads page and limit with the route's default limit, capped.
func Page(q url.Values, defaultLimit int) model.Page {
	return model.Page{
		Page:  PositiveIntFallback(q.Get("page"), model.DefaultPage),
		Limit: PositiveIntFallback(q.Get("limit"), defaultLimit),
	}.Normalize(defaultLimit)
}

func GeneFilter(q url.Values, organismID string, defaultLimit int) model.GeneFilter {
	if organismID == "" {
		organismID = q.Get("organismId")
	}
	return model.GeneFilter{
		OrganismID:   organismID,
		ChromosomeID: q.Get("chromosomeId"),
		Query:        strings.TrimSpace(q.Get("q")),
		Page:         Page(q, defaultLimit),
	}
}

func ProteinFilter(q url.Values, defaultLimit int) model.ProteinFilter {
	return model.ProteinFilter{
		GeneID:     q.Get("geneId"),
		OrganismID: q.Get("organismId"),
		Page:       Page(q, defaultLimit),
	}
}

// SecretionFilter rejects unknown pathways and non-boolean isSecreted.
func SecretionFilter(q url.Values, defaultLimit int) (model.SecretionFilter, error) {
	f := model.SecretionFilter{
		OrganismID: q.Get("organismId"),
		Page:       Page(q, defaultLimit),
	}

	pathway := params.ParsePathway(q.Get("pathway"))
	if pathway == params.PathwayUnknown {
		return f, Invalid("unknown pathway %q", q.Get("pathway"))
	}
	f.Pathway = pathway.String()

	if raw := q.Get("isSecreted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, Invalid("isSecreted need to be bool-like string")
		}
		f.IsSecreted = &v
	}
	return f, nil
}

func AnalysisType(raw string) (params.AnalysisType, error) {
	t := params.ParseAnalysisType(raw)
	if t == params.AnalysisUnknown {
		return t, Invalid("unknown analysisType %q", raw)
	}
	return t, nil
}

// DecodeJSON reads one JSON object into dst. Unknown fields, trailing data
// and oversized bodies are validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return Invalid("request body must not be empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return Invalid("request body contains malformed JSON")
		case errors.As(err, &typeErr):
			return Invalid("request body has an invalid value for %q", typeErr.Field)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return Invalid("request body contains unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxErr):
			return Invalid("request body must not be larger than %d bytes", MaxBodyBytes)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return Invalid("request body must only contain a single JSON object")
	}
	return nil
}
