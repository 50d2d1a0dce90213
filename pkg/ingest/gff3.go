package ingest

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// GFF3 holds the gene features of a GFF3 file plus the lines that were
// skipped while reading it.
type GFF3 struct {
	Features []Feature
	Skipped  []error
}

type gffLine struct {
	seqID  string
	kind   string
	start  int64
	end    int64
	strand string
	attrs  map[string]string
}

// ReadGFF3 reads gene, RNA and CDS rows. CDS rows contribute product and
// protein id to their gene through Parent (directly or via an mRNA). A
// ##FASTA directive ends the annotation section.
func ReadGFF3(r io.Reader) (*GFF3, error) {
	scanner := newScanner(r)

	out := &GFF3{}
	// gene ID -> index into Features, transcript ID -> gene ID
	byID := map[string]int{}
	rnaParent := map[string]string{}
	var cds []gffLine
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "##FASTA") {
			break
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		row, err := parseGFFLine(line)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}

		switch row.kind {
		case "gene", "pseudogene":
			f, err := row.feature()
			if err != nil {
				out.Skipped = append(out.Skipped, fmt.Errorf("line %d: %w", lineNo, err))
				continue
			}
			out.Features = append(out.Features, f)
			if id := row.attrs["ID"]; id != "" {
				byID[id] = len(out.Features) - 1
			}
		case "mRNA", "transcript", "tRNA", "rRNA", "ncRNA":
			if id, parent := row.attrs["ID"], row.attrs["Parent"]; id != "" && parent != "" {
				rnaParent[id] = parent
			}
			if product := row.attrs["product"]; product != "" {
				if idx, ok := byID[row.attrs["Parent"]]; ok && out.Features[idx].Product == "" {
					out.Features[idx].Product = product
				}
			}
		case "CDS":
			cds = append(cds, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// CDS rows may precede their gene, so they are resolved last.
	for _, row := range cds {
		parent := row.attrs["Parent"]
		if gene, ok := rnaParent[parent]; ok {
			parent = gene
		}
		if parent == "" {
			parent = row.attrs["ID"]
		}
		idx, ok := byID[parent]
		if !ok {
			f, err := row.feature()
			if err != nil {
				out.Skipped = append(out.Skipped, fmt.Errorf("CDS %s: %w", row.attrs["ID"], err))
				continue
			}
			out.Features = append(out.Features, f)
			if parent != "" {
				byID[parent] = len(out.Features) - 1
			}
			continue
		}
		f := &out.Features[idx]
		if v := row.attrs["product"]; v != "" {
			f.Product = v
		}
		if v := row.attrs["protein_id"]; v != "" && f.ProteinID == "" {
			f.ProteinID = v
		}
	}
	return out, nil
}

func parseGFFLine(line string) (gffLine, error) {
	cols := strings.Split(line, "\t")
	if len(cols) != 9 {
		return gffLine{}, fmt.Errorf("want 9 tab separated columns, got %d", len(cols))
	}

	start, err := strconv.ParseInt(cols[3], 10, 64)
	if err != nil {
		return gffLine{}, fmt.Errorf("bad start %q", cols[3])
	}
	end, err := strconv.ParseInt(cols[4], 10, 64)
	if err != nil {
		return gffLine{}, fmt.Errorf("bad end %q", cols[4])
	}
	if start <= 0 || end < start {
		return gffLine{}, fmt.Errorf("bad span %d..%d", start, end)
	}

	attrs := map[string]string{}
	for _, pair := range strings.Split(cols[8], ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" {
			continue
		}
		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		attrs[key] = value
	}

	return gffLine{
		seqID:  cols[0],
		kind:   cols[2],
		start:  start,
		end:    end,
		strand: cols[6],
		attrs:  attrs,
	}, nil
}

func (l gffLine) feature() (Feature, error) {
	locus := l.attrs["locus_tag"]
	if locus == "" {
		locus = l.attrs["old_locus_tag"]
	}
	if locus == "" {
		return Feature{}, fmt.Errorf("%s %s has no locus_tag", l.kind, l.attrs["ID"])
	}
	if l.strand != "+" && l.strand != "-" {
		return Feature{}, fmt.Errorf("%s %s has strand %q", l.kind, locus, l.strand)
	}

	gene := l.attrs["gene"]
	if gene == "" && l.attrs["Name"] != locus {
		gene = l.attrs["Name"]
	}
	return Feature{
		SeqID:       l.seqID,
		LocusTag:    locus,
		Gene:        gene,
		Product:     l.attrs["product"],
		ProteinID:   l.attrs["protein_id"],
		Location:    Location{Start: l.start, End: l.end, Strand: l.strand},
		HasLocation: true,
	}, nil
}
