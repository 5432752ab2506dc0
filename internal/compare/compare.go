// Package compare checks that two almanac documents agree on their core
// sequences. It is used to verify a migrated or regenerated almanac against
// an older one, including the older flat layout.
package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/chrissnell/lakealmanac/pkg/almanac"
)

const (
	FirstFreezesBeforeSummer = "FirstFreezesBeforeSummer"
	FirstFreezesAfterSummer  = "FirstFreezesAfterSummer"
	LastFreezesBeforeSummer  = "LastFreezesBeforeSummer"
)

// FieldResult is the outcome of comparing one sequence of one year
type FieldResult struct {
	Year   string
	Field  string
	Match  bool
	OldLen int
	NewLen int
	// Index of the first mismatching reading, or -1 for a length mismatch
	Index int
	Old   almanac.Reading
	New   almanac.Reading
}

// Report collects every field comparison
type Report struct {
	OldYears    []string
	NewYears    []string
	CommonYears []string
	Results     []FieldResult
	// Notes lists data only present in the newer document
	Notes    []string
	Metadata almanac.Metadata
}

func (r *Report) Total() int {
	return len(r.Results)
}

func (r *Report) Matched() int {
	n := 0
	for _, res := range r.Results {
		if res.Match {
			n++
		}
	}
	return n
}

// AllMatched is false for an empty comparison
func (r *Report) AllMatched() bool {
	return r.Total() > 0 && r.Matched() == r.Total()
}

// SuccessRate is the matched percentage
func (r *Report) SuccessRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Matched()) / float64(r.Total()) * 100
}

func yearLabels(doc *almanac.Document) []string {
	labels := make([]string, 0, len(doc.Almanac))
	for label := range doc.Almanac {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// Documents compares the whole-year hi/low sequences and the first-freeze
// sequences of every year label present in both documents.
func Documents(older, newer *almanac.Document) *Report {
	r := &Report{
		OldYears: yearLabels(older),
		NewYears: yearLabels(newer),
		Metadata: newer.Metadata,
	}
	for _, label := range r.OldYears {
		if _, ok := newer.Almanac[label]; ok {
			r.CommonYears = append(r.CommonYears, label)
		}
	}

	for _, label := range r.CommonYears {
		o, n := older.Almanac[label], newer.Almanac[label]
		for _, m := range almanac.HiLowMetrics {
			r.Results = append(r.Results, Sequences(label, m.String(), o.Year.HiLow(m), n.Year.HiLow(m)))
		}
		r.Results = append(r.Results,
			Sequences(label, FirstFreezesBeforeSummer, o.FirstFreezesBeforeSummer, n.FirstFreezesBeforeSummer),
			Sequences(label, FirstFreezesAfterSummer, o.FirstFreezesAfterSummer, n.FirstFreezesAfterSummer),
		)

		// The flat layout predates last freezes, so they are reported
		// rather than compared.
		if last := n.LastFreezesBeforeSummer; len(last) > 0 {
			r.Notes = append(r.Notes, fmt.Sprintf("%s: includes %s (%d readings)", label, LastFreezesBeforeSummer, len(last)))
		}
		if avg := n.Year.Average; avg != nil {
			r.Notes = append(r.Notes, fmt.Sprintf("%s: includes averages (avg: %.2f, n: %d)", label, avg.Average, avg.N))
		}
	}
	return r
}

// Sequences compares two sequences after ordering both by instant.
func Sequences(year, field string, older, newer almanac.Sequence) FieldResult {
	res := FieldResult{Year: year, Field: field, OldLen: len(older), NewLen: len(newer), Index: -1}
	if len(older) != len(newer) {
		return res
	}

	o, n := slices.Clone(older), slices.Clone(newer)
	almanac.SortByDate(o)
	almanac.SortByDate(n)
	for i := range o {
		if !o[i].Same(n[i]) {
			res.Index, res.Old, res.New = i, o[i], n[i]
			return res
		}
	}
	res.Match = true
	return res
}

// Load reads a document from a file path or an http(s) URL
func Load(ctx context.Context, client *http.Client, source string) (*almanac.Document, error) {
	var body []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = fetch(ctx, client, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	doc := almanac.NewDocument()
	if err := json.Unmarshal(body, doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}
	return doc, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
