package ingest

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// GenBankRecord is one LOCUS ... // entry of a GenBank flat file.
type GenBankRecord struct {
	Locus      string
	Definition string
	Accession  string
	Version    string
	Organism   string
	TaxonID    string
	Length     int64
	Sequence   string
	Features   []Feature
	// Features that could not be read, one error each.
	Skipped []error
}

// ChromosomeAccession prefers the versioned accession.
func (r GenBankRecord) ChromosomeAccession() string {
	if r.Version != "" {
		return r.Version
	}
	if r.Accession != "" {
		return r.Accession
	}
	return r.Locus
}

// GCContent is the G+C percentage of the ORIGIN sequence, nil without one.
func (r GenBankRecord) GCContent() *float64 {
	var gc, total int
	for i := 0; i < len(r.Sequence); i++ {
		switch r.Sequence[i] {
		case 'G', 'C', 'S':
			gc++
			total++
		case 'A', 'T', 'U', 'W':
			total++
		}
	}
	if total == 0 {
		return nil
	}
	v := math.Round(float64(gc)/float64(total)*10000) / 100
	return &v
}

type qualifier struct {
	key   string
	value strings.Builder
}

type rawFeature struct {
	key      string
	location strings.Builder
	quals    []*qualifier
}

func (f *rawFeature) get(key string) string {
	for _, q := range f.quals {
		if q.key != key {
			continue
		}
		v := strings.Trim(q.value.String(), `"`)
		if key == "translation" {
			v = strings.ReplaceAll(v, " ", "")
		}
		return strings.ReplaceAll(v, `""`, `"`)
	}
	return ""
}

// ReadGenBank reads every record of a GenBank flat file.
func ReadGenBank(r io.Reader) ([]GenBankRecord, error) {
	scanner := newScanner(r)

	var records []GenBankRecord
	var rec *GenBankRecord
	var raws []*rawFeature
	var feat *rawFeature
	var seq strings.Builder
	section := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line == "//" {
			if rec != nil {
				rec.Sequence = seq.String()
				if rec.Length == 0 {
					rec.Length = int64(len(rec.Sequence))
				}
				rec.collect(raws)
				records = append(records, *rec)
			}
			rec, raws, feat, section = nil, nil, nil, ""
			seq.Reset()
			continue
		}

		// Top level keyword.
		if line[0] != ' ' {
			keyword, rest := splitKeyword(line)
			if keyword == "LOCUS" {
				rec = &GenBankRecord{}
				fields := strings.Fields(rest)
				if len(fields) > 0 {
					rec.Locus = fields[0]
				}
				if len(fields) > 1 {
					rec.Length, _ = strconv.ParseInt(fields[1], 10, 64)
				}
				section = keyword
				continue
			}
			if rec == nil {
				return nil, fmt.Errorf("line %d: %s outside a LOCUS record", lineNo, keyword)
			}
			section = keyword
			switch keyword {
			case "DEFINITION":
				rec.Definition = rest
			case "ACCESSION":
				if fields := strings.Fields(rest); len(fields) > 0 {
					rec.Accession = fields[0]
				}
			case "VERSION":
				if fields := strings.Fields(rest); len(fields) > 0 {
					rec.Version = fields[0]
				}
			}
			continue
		}

		if rec == nil {
			return nil, fmt.Errorf("line %d: data outside a LOCUS record", lineNo)
		}

		switch section {
		case "DEFINITION":
			rec.Definition += " " + strings.TrimSpace(line)
		case "SOURCE":
			keyword, rest := splitKeyword(strings.TrimLeft(line, " "))
			if keyword == "ORGANISM" {
				rec.Organism = rest
				section = "ORGANISM"
			}
		case "FEATURES":
			feat = readFeatureLine(line, feat, &raws)
		case "ORIGIN":
			for _, c := range line {
				switch {
				case c >= 'a' && c <= 'z':
					seq.WriteRune(c - 'a' + 'A')
				case c >= 'A' && c <= 'Z':
					seq.WriteRune(c)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rec != nil {
		return nil, fmt.Errorf("record %s is missing its // terminator", rec.Locus)
	}
	return records, nil
}

func splitKeyword(line string) (string, string) {
	keyword, rest, _ := strings.Cut(line, " ")
	return keyword, strings.TrimSpace(rest)
}

// readFeatureLine handles one line of the FEATURES table. The key sits in
// columns 6-20 and qualifiers start with '/' from column 22.
func readFeatureLine(line string, feat *rawFeature, raws *[]*rawFeature) *rawFeature {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	body := strings.TrimSpace(line)

	if indent < 21 {
		key, loc := splitKeyword(body)
		feat = &rawFeature{key: key}
		feat.location.WriteString(loc)
		*raws = append(*raws, feat)
		return feat
	}
	if feat == nil {
		return nil
	}

	if strings.HasPrefix(body, "/") {
		key, value, _ := strings.Cut(body[1:], "=")
		q := &qualifier{key: key}
		q.value.WriteString(value)
		feat.quals = append(feat.quals, q)
		return feat
	}

	if len(feat.quals) == 0 {
		feat.location.WriteString(body)
		return feat
	}
	last := feat.quals[len(feat.quals)-1]
	last.value.WriteString(" ")
	last.value.WriteString(body)
	return feat
}

// collect folds gene, CDS and RNA features sharing a locus tag into one
// Feature each, in file order.
func (r *GenBankRecord) collect(raws []*rawFeature) {
	byLocus := map[string]int{}

	for _, raw := range raws {
		switch raw.key {
		case "source":
			if r.Organism == "" {
				r.Organism = raw.get("organism")
			}
			for _, q := range raw.quals {
				if q.key != "db_xref" {
					continue
				}
				if v := strings.Trim(q.value.String(), `"`); strings.HasPrefix(v, "taxon:") {
					r.TaxonID = strings.TrimPrefix(v, "taxon:")
				}
			}
			continue
		case "gene", "CDS", "tRNA", "rRNA", "ncRNA", "tmRNA":
		default:
			continue
		}

		locus := raw.get("locus_tag")
		if locus == "" {
			r.Skipped = append(r.Skipped, fmt.Errorf("%s %s has no locus_tag", raw.key, raw.location.String()))
			continue
		}
		loc, err := ParseLocation(raw.location.String())
		if err != nil {
			r.Skipped = append(r.Skipped, fmt.Errorf("%s %s: %w", raw.key, locus, err))
			continue
		}

		idx, seen := byLocus[locus]
		if !seen {
			r.Features = append(r.Features, Feature{
				SeqID:       r.ChromosomeAccession(),
				LocusTag:    locus,
				Location:    loc,
				HasLocation: true,
			})
			idx = len(r.Features) - 1
			byLocus[locus] = idx
		}
		f := &r.Features[idx]

		if raw.key == "gene" {
			f.Location = loc
		}
		if v := raw.get("gene"); v != "" && f.Gene == "" {
			f.Gene = v
		}
		if v := raw.get("product"); v != "" {
			f.Product = v
		}
		if raw.key == "CDS" {
			if v := raw.get("protein_id"); v != "" {
				f.ProteinID = v
			}
			if v := raw.get("translation"); v != "" {
				f.Translation = v
			}
		}
	}
}
