package model

import (
	"fmt"
	"strings"
)

// NumericColumn standardises one numeric column: (x - Mean) / Scale.
type NumericColumn struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

// CategoricalColumn one-hot encodes a text column. Values outside Categories
// encode as all zeros. With a Separator the cell holds a joined list and every
// known category in it sets its indicator, even one containing the separator.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
	Separator  string   `json:"separator,omitempty"`
}

// ColumnTransformer is the exported form of the fitted preprocessor. Output
// columns are the numeric columns in order followed by each categorical
// column's indicators.
type ColumnTransformer struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

func (ct *ColumnTransformer) Validate() error {
	if len(ct.Numeric)+len(ct.Categorical) == 0 {
		return fmt.Errorf("column transformer has no columns")
	}
	seen := make(map[string]struct{})
	check := func(name string) error {
		if name == "" {
			return fmt.Errorf("column transformer has an unnamed column")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("column transformer lists %q twice", name)
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, c := range ct.Numeric {
		if err := check(c.Name); err != nil {
			return err
		}
	}
	for _, c := range ct.Categorical {
		if err := check(c.Name); err != nil {
			return err
		}
		if len(c.Categories) == 0 {
			return fmt.Errorf("categorical column %q has no categories", c.Name)
		}
	}
	return nil
}

// Width is the number of output features per row.
func (ct *ColumnTransformer) Width() int {
	w := len(ct.Numeric)
	for _, c := range ct.Categorical {
		w += len(c.Categories)
	}
	return w
}

func (ct *ColumnTransformer) Transform(rows []FeatureRow) (Matrix, error) {
	out := make(Matrix, 0, len(rows))
	for i, row := range rows {
		vec, err := ct.transformColumns(row.Columns())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, vec)
	}
	return out, nil
}

func (ct *ColumnTransformer) transformColumns(cols []Column) ([]float64, error) {
	cells := index(cols)
	vec := make([]float64, 0, ct.Width())

	for _, nc := range ct.Numeric {
		cell, ok := cells[nc.Name]
		if !ok {
			return nil, fmt.Errorf("column %q missing", nc.Name)
		}
		if !cell.Numeric {
			return nil, fmt.Errorf("column %q is not numeric", nc.Name)
		}
		scale := nc.Scale
		if scale == 0 {
			scale = 1
		}
		vec = append(vec, (cell.Num-nc.Mean)/scale)
	}

	for _, cc := range ct.Categorical {
		cell, ok := cells[cc.Name]
		if !ok {
			return nil, fmt.Errorf("column %q missing", cc.Name)
		}
		if cell.Numeric {
			return nil, fmt.Errorf("column %q is not categorical", cc.Name)
		}
		vec = append(vec, cc.encode(cell.Text)...)
	}
	return vec, nil
}

func (cc CategoricalColumn) encode(value string) []float64 {
	hot := make([]float64, len(cc.Categories))
	if cc.Separator == "" {
		for i, cat := range cc.Categories {
			if value == cat {
				hot[i] = 1
			}
		}
		return hot
	}
	for value != "" {
		i, n := cc.matchAt(value)
		if i >= 0 {
			hot[i] = 1
			value = strings.TrimPrefix(value[n:], cc.Separator)
			continue
		}
		// Unknown token: skip to the next separator.
		cut := strings.Index(value, cc.Separator)
		if cut < 0 {
			break
		}
		value = value[cut+len(cc.Separator):]
	}
	return hot
}

// matchAt finds the longest category that starts value and ends at a
// separator or at the end of value. Categories may contain the separator.
func (cc CategoricalColumn) matchAt(value string) (idx, n int) {
	idx = -1
	for i, cat := range cc.Categories {
		if cat == "" || len(cat) <= n || !strings.HasPrefix(value, cat) {
			continue
		}
		rest := value[len(cat):]
		if rest != "" && !strings.HasPrefix(rest, cc.Separator) {
			continue
		}
		idx, n = i, len(cat)
	}
	return idx, n
}
