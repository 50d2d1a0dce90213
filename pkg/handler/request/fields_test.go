package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 50},
		{"page=3&limit=10", 3, 10},
		{"page=0&limit=-1", 1, 50},
		{"page=abc&limit=xyz", 1, 50},
		{"limit=500", 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			p := Page(q, 50)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
		})
	}
}

func TestGeneFilterPrefersPathOrganism(t *testing.T) {
	q, _ := url.ParseQuery("organismId=other&q=+hly+&chromosomeId=c1")
	f := GeneFilter(q, "o1", 50)
	assert.Equal(t, "o1", f.OrganismID)
	assert.Equal(t, "hly", f.Query)
	assert.Equal(t, "c1", f.ChromosomeID)

	f = GeneFilter(q, "", 50)
	assert.Equal(t, "other", f.OrganismID)
}

func TestSecretionFilter(t *testing.T) {
	q, _ := url.ParseQuery("pathway=t1ss&isSecreted=true")
	f, err := SecretionFilter(q, 25)
	require.NoError(t, err)
	assert.Equal(t, "T1SS", f.Pathway)
	require.NotNil(t, f.IsSecreted)
	assert.True(t, *f.IsSecreted)
	assert.Equal(t, 25, f.Page.Limit)

	for _, raw := range []string{"pathway=T9SS", "isSecreted=maybe"} {
		q, _ := url.ParseQuery(raw)
		_, err := SecretionFilter(q, 25)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), raw)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"product":"toxin","locusTag":"x"}`, ""},
		{"empty", ``, "must not be empty"},
		{"malformed", `{"product":`, "malformed JSON"},
		{"wrong type", `{"product":1}`, `invalid value for "product"`},
		{"unknown field", `{"prod":"x"}`, `unknown field "prod"`},
		{"two objects", `{"product":"a"}{"product":"b"}`, "single JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst ClassifyRequest
			err := DecodeJSON(httptest.NewRecorder(), r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "toxin", dst.Product)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Message, tt.wantErr)
		})
	}
}

func TestBodyValidation(t *testing.T) {
	assert.Error(t, AnalysisRequest{Sequence: "  "}.Validate())
	assert.NoError(t, AnalysisRequest{Sequence: "MKV"}.Validate())
	assert.Error(t, ClassifyRequest{}.Validate())
	assert.Error(t, ChatRequest{}.Validate())
	zero := 0
	assert.Error(t, ProfileRequest{VersionNumber: &zero}.Validate())
	assert.NoError(t, ProfileRequest{}.Validate())
}
