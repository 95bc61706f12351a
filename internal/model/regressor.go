package model

import (
	"fmt"
	"math"
	"sort"
)

// LinearRegressor predicts Intercept + Σ Numeric[c]·x[c] + Categorical[c][x[c]].
// Categories without an offset contribute nothing.
type LinearRegressor struct {
	Intercept   float64                       `json:"intercept"`
	Numeric     map[string]float64            `json:"numeric"`
	Categorical map[string]map[string]float64 `json:"categorical"`
}

func (lr *LinearRegressor) Validate() error {
	if len(lr.Numeric)+len(lr.Categorical) == 0 {
		return fmt.Errorf("regressor has no coefficients")
	}
	return nil
}

func (lr *LinearRegressor) Predict(rows []EffectRow) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	for i, row := range rows {
		y, err := lr.predictColumns(row.Columns())
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, y)
	}
	return out, nil
}

func (lr *LinearRegressor) predictColumns(cols []Column) (float64, error) {
	cells := index(cols)
	y := lr.Intercept
	// Sum in key order so repeated predictions are bit-identical.
	for _, name := range sortedKeys(lr.Numeric) {
		w := lr.Numeric[name]
		cell, ok := cells[name]
		if !ok {
			return 0, fmt.Errorf("column %q missing", name)
		}
		if !cell.Numeric {
			return 0, fmt.Errorf("column %q is not numeric", name)
		}
		y += w * cell.Num
	}
	for _, name := range sortedKeys(lr.Categorical) {
		offsets := lr.Categorical[name]
		cell, ok := cells[name]
		if !ok {
			return 0, fmt.Errorf("column %q missing", name)
		}
		if cell.Numeric {
			return 0, fmt.Errorf("column %q is not categorical", name)
		}
		y += offsets[cell.Text]
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("prediction is not finite")
	}
	return y, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
