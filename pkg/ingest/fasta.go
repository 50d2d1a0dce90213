// Package ingest parses FASTA, GenBank, GFF3 and YAML manifests and loads
// them into the store through the model upserts.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// maxLineBytes bounds a single input line; GenBank ORIGIN blocks and
// unwrapped FASTA sequences can be long.
const maxLineBytes = 16 * 1024 * 1024

// FastaRecord is a single FASTA entry (header without '>', joined sequence).
type FastaRecord struct {
	Header   string
	Sequence string
	Line     int
}

// Feature is one annotated gene as read from any of the input formats.
type Feature struct {
	SeqID       string
	LocusTag    string
	Gene        string
	Product     string
	ProteinID   string
	Location    Location
	HasLocation bool
	Translation string
}

// Symbol is the gene symbol, falling back to the locus tag.
func (f Feature) Symbol() string {
	if f.Gene != "" {
		return f.Gene
	}
	return f.LocusTag
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// ReadFasta reads FASTA records from r. Lines beginning with '>' start a
// record, sequence lines are concatenated and blank lines are ignored.
func ReadFasta(r io.Reader) ([]FastaRecord, error) {
	scanner := newScanner(r)

	var records []FastaRecord
	var current *FastaRecord
	var seq strings.Builder
	lineNo := 0

	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ">"):
			flush()
			current = &FastaRecord{Header: strings.TrimSpace(line[1:]), Line: lineNo}
		case current == nil:
			return nil, fmt.Errorf("line %d: sequence data before the first header", lineNo)
		default:
			seq.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return records, nil
}

var headerTag = regexp.MustCompile(`\[([A-Za-z_]+)=([^\]]*)\]`)

// HeaderTags extracts the bracketed key=value tags NCBI writes into
// cds_from_genomic / translated_cds headers.
func HeaderTags(header string) map[string]string {
	tags := map[string]string{}
	for _, m := range headerTag.FindAllStringSubmatch(header, -1) {
		tags[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	return tags
}

// FeatureFromHeader builds a Feature from an NCBI tagged FASTA header. The
// locus tag and protein id are required; the location is optional.
func FeatureFromHeader(header string) (Feature, error) {
	tags := HeaderTags(header)

	f := Feature{
		LocusTag:  tags["locus_tag"],
		Gene:      tags["gene"],
		Product:   tags["protein"],
		ProteinID: tags["protein_id"],
	}
	if f.ProteinID == "" {
		f.ProteinID = tags["protein_accession"]
	}
	if f.LocusTag == "" {
		return f, fmt.Errorf("header %q has no locus_tag", truncate(header, 60))
	}
	if f.ProteinID == "" {
		return f, fmt.Errorf("header %q has no protein_id", truncate(header, 60))
	}

	if raw, ok := tags["location"]; ok {
		loc, err := ParseLocation(raw)
		if err != nil {
			return f, err
		}
		f.Location = loc
		f.HasLocation = true
	}
	return f, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
