package artifacts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// columnNames maps the survey export headers to internal names.
var columnNames = map[string]string{
	"Best OTC":          "best_otc",
	"OTCSleep":          "otc_sleep",
	"OTC Cause":         "otc_cause",
	"OTC PainLocation":  "otc_pain_location",
	"OTC PainTime":      "otc_pain_time",
	"OTC CocomtSymptom": "otc_cocomt_symptom",
	"Gender":            "gender",
	"Age":               "age",
	"Height":            "height",
	"Weight":            "weight",
	"Ethnicity":         "ethnicity",
	"Race":              "race",
}

// LabelColumn holds the recommended medication in the reference data.
const LabelColumn = "best_otc"

// Dataset is the reference survey the models were fitted on. Inference does
// not read it.
type Dataset struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// LabelCount is how often a medication was the best OTC in the reference data.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary describes the reference dataset.
type Summary struct {
	Rows   int          `json:"rows"`
	Labels []LabelCount `json:"labels"`
}

func LoadDataset(path string) (*Dataset, error) {
	if path == "" {
		return nil, fmt.Errorf("no path configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset parses CSV with leading spaces skipped and trimmed, renamed
// headers.
func ReadDataset(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	ds := &Dataset{index: make(map[string]int, len(header))}
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if renamed, ok := columnNames[name]; ok {
			name = renamed
		}
		ds.Columns = append(ds.Columns, name)
		ds.index[name] = i
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(ds.Rows)+1, err)
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds, nil
}

func (d *Dataset) Len() int { return len(d.Rows) }

// Column returns every value of the named column; short rows yield "".
func (d *Dataset) Column(name string) ([]string, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out, true
}

// Summary counts rows per best_otc label, most frequent first.
func (d *Dataset) Summary() Summary {
	s := Summary{Rows: d.Len()}
	labels, ok := d.Column(LabelColumn)
	if !ok {
		return s
	}
	counts := make(map[string]int)
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		counts[l]++
	}
	for l, n := range counts {
		s.Labels = append(s.Labels, LabelCount{Label: l, Count: n})
	}
	sort.Slice(s.Labels, func(i, j int) bool {
		if s.Labels[i].Count != s.Labels[j].Count {
			return s.Labels[i].Count > s.Labels[j].Count
		}
		return s.Labels[i].Label < s.Labels[j].Label
	})
	return s
}
