package ingest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SystemManifest lists secretion systems to create. Organisms are named by
// scientific name and chromosomes by accession or name.
//
//	systems:
//	  - organism: Kordia algicida OT-1
//	    chromosome: NZ_CP060006.1
//	    name: Kordia T1SS
//	    type: T1SS
//	    components:
//	      - {locus_tag: KO461_06305, name: HlyB, type: ATPase}
//	    cargo: [WP_000001.1]
type SystemManifest struct {
	Systems []SystemEntry `yaml:"systems"`
}

type SystemEntry struct {
	Organism    string           `yaml:"organism"`
	Chromosome  string           `yaml:"chromosome"`
	Name        string           `yaml:"name"`
	Type        string           `yaml:"type"`
	Description string           `yaml:"description"`
	Components  []ComponentEntry `yaml:"components"`
	Cargo       []string         `yaml:"cargo"`
}

type ComponentEntry struct {
	LocusTag string `yaml:"locus_tag"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
}

// ArticleManifest lists articles and the genes they are linked to.
type ArticleManifest struct {
	Articles []ArticleEntry `yaml:"articles"`
}

type ArticleEntry struct {
	Title     string      `yaml:"title"`
	Journal   string      `yaml:"journal"`
	DOI       string      `yaml:"doi"`
	URL       string      `yaml:"url"`
	Summary   string      `yaml:"summary"`
	Published string      `yaml:"published"`
	Genes     []GeneEntry `yaml:"genes"`
}

type GeneEntry struct {
	Organism   string   `yaml:"organism"`
	LocusTag   string   `yaml:"locus_tag"`
	KeyFinding string   `yaml:"key_finding"`
	Relevance  *float64 `yaml:"relevance"`
}

// PublishedDate parses Published as YYYY-MM-DD, YYYY-MM or YYYY.
func (a ArticleEntry) PublishedDate() (*time.Time, error) {
	raw := strings.TrimSpace(a.Published)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("article %q: bad published date %q", a.Title, raw)
}

// ReadSystemManifest decodes a secretion system manifest.
func ReadSystemManifest(r io.Reader) (*SystemManifest, error) {
	var m SystemManifest
	if err := decodeManifest(r, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadArticleManifest decodes an article manifest.
func ReadArticleManifest(r io.Reader) (*ArticleManifest, error) {
	var m ArticleManifest
	if err := decodeManifest(r, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeManifest(r io.Reader, dst any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("manifest is empty")
		}
		return fmt.Errorf("parse manifest: %w", err)
	}
	return nil
}
