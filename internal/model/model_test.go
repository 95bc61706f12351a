package model

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRow() FeatureRow {
	return FeatureRow{
		PrePain: 6, Age: 60, Height: 67, Weight: 183,
		Gender: "Female", Race: "White", Ethnicity: "No",
		PainLocation: "All over the knee", PainTime: "Feel more pain during bad weather.",
		Symptoms: "Swelling,Stiffness", Sleep: "None of the above", Cause: "Aging Such as osteoarthritis",
	}
}

func sampleTransformer() *ColumnTransformer {
	return &ColumnTransformer{
		Numeric: []NumericColumn{
			{Name: ColPrePain, Mean: 5, Scale: 2},
			{Name: ColAge, Mean: 60, Scale: 0},
		},
		Categorical: []CategoricalColumn{
			{Name: ColGender, Categories: []string{"Male", "Female"}},
			{Name: ColSymptoms, Categories: []string{"Dull pain", "Swelling", "Stiffness"}, Separator: ","},
		},
	}
}

func TestColumnTransformerTransform(t *testing.T) {
	ct := sampleTransformer()
	require.NoError(t, ct.Validate())
	assert.Equal(t, 7, ct.Width())

	x, err := ct.Transform([]FeatureRow{sampleRow()})
	require.NoError(t, err)

	want := Matrix{{0.5, 0, 0, 1, 0, 1, 1}}
	if diff := cmp.Diff(want, x); diff != "" {
		t.Fatalf("transform mismatch (-want +got):\n%s", diff)
	}
}

func TestColumnTransformerUnknownCategoryEncodesZero(t *testing.T) {
	row := sampleRow()
	row.Gender = "Prefer not to say"
	row.Symptoms = ""

	x, err := sampleTransformer().Transform([]FeatureRow{row})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, x[0][2:])
}

func TestSeparatorColumnMatchesCategoriesContainingSeparator(t *testing.T) {
	cc := CategoricalColumn{
		Name:       ColSymptoms,
		Categories: []string{"Swelling", "Instability or weakness (having trouble walking, limping) ", "Fever"},
		Separator:  ",",
	}

	tests := []struct {
		name  string
		value string
		want  []float64
	}{
		{"alone", "Instability or weakness (having trouble walking, limping) ", []float64{0, 1, 0}},
		{"first", "Instability or weakness (having trouble walking, limping) ,Fever", []float64{0, 1, 1}},
		{"last", "Swelling,Instability or weakness (having trouble walking, limping) ", []float64{1, 1, 0}},
		{"fragment is not a match", "Instability or weakness (having trouble walking", []float64{0, 0, 0}},
		{"unknown between known", "Swelling,Headache,Fever", []float64{1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, cc.encode(tt.value)); diff != "" {
				t.Fatalf("encode(%q) mismatch (-want +got):\n%s", tt.value, diff)
			}
		})
	}
}

func TestColumnTransformerMissingColumn(t *testing.T) {
	ct := &ColumnTransformer{Numeric: []NumericColumn{{Name: "otc_postpain", Scale: 1}}}
	_, err := ct.Transform([]FeatureRow{sampleRow()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "otc_postpain")
}

func TestColumnTransformerValidate(t *testing.T) {
	assert.Error(t, (&ColumnTransformer{}).Validate())
	assert.Error(t, (&ColumnTransformer{
		Numeric:     []NumericColumn{{Name: ColAge}},
		Categorical: []CategoricalColumn{{Name: ColAge, Categories: []string{"x"}}},
	}).Validate())
}

func TestLogisticClassifierPredictProba(t *testing.T) {
	lc := &LogisticClassifier{
		Labels:    []string{"a", "b", "c"},
		Coef:      [][]float64{{1, 0}, {0, 1}, {0, 0}},
		Intercept: []float64{0, 0, 0},
	}
	require.NoError(t, lc.Validate())

	p, err := lc.PredictProba(Matrix{{2, 1}})
	require.NoError(t, err)
	require.Len(t, p, 1)

	var sum float64
	for _, v := range p[0] {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.Greater(t, p[0][0], p[0][1])
	assert.Greater(t, p[0][1], p[0][2])

	e := math.Exp
	want := []float64{e(2) / (e(2) + e(1) + 1), e(1) / (e(2) + e(1) + 1), 1 / (e(2) + e(1) + 1)}
	if diff := cmp.Diff(want, p[0], cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("probabilities mismatch (-want +got):\n%s", diff)
	}
}

func TestLogisticClassifierWidthMismatch(t *testing.T) {
	lc := &LogisticClassifier{Labels: []string{"a"}, Coef: [][]float64{{1}}, Intercept: []float64{0}}
	_, err := lc.PredictProba(Matrix{{1, 2}})
	assert.Error(t, err)
}

func TestLogisticClassifierValidate(t *testing.T) {
	assert.Error(t, (&LogisticClassifier{}).Validate())
	assert.Error(t, (&LogisticClassifier{
		Labels: []string{"a", "a"}, Coef: [][]float64{{1}, {1}}, Intercept: []float64{0, 0},
	}).Validate())
	assert.Error(t, (&LogisticClassifier{
		Labels: []string{"a", "b"}, Coef: [][]float64{{1}, {1, 2}}, Intercept: []float64{0, 0},
	}).Validate())
}

func TestLinearRegressorPredict(t *testing.T) {
	lr := &LinearRegressor{
		Intercept: 1,
		Numeric:   map[string]float64{ColPrePain: 0.5, ColUseTime: 0.25},
		Categorical: map[string]map[string]float64{
			ColGender: {"Female": 0.3},
		},
	}
	y, err := lr.Predict([]EffectRow{{PrePain: 6, Gender: "Female", UseTime: 4}})
	require.NoError(t, err)
	assert.InDelta(t, 1+3+1+0.3, y[0], 1e-12)

	y, err = lr.Predict([]EffectRow{{PrePain: 6, Gender: "Male", UseTime: 4}})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, y[0], 1e-12)
}

func TestLinearRegressorUnknownColumn(t *testing.T) {
	lr := &LinearRegressor{Numeric: map[string]float64{ColSymptoms: 1}}
	_, err := lr.Predict([]EffectRow{{}})
	assert.Error(t, err)
}

func TestArtifactRoundTripAndKindCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, KindColumnTransformer, sampleTransformer()))

	ct, err := DecodeColumnTransformer(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 7, ct.Width())

	_, err = DecodeLinearRegressor(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), KindLinearRegressor)
}

func TestDecodeRejectsVersion(t *testing.T) {
	_, err := DecodeLogisticClassifier(strings.NewReader(`{"kind":"logistic_classifier","version":2,"spec":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestEffectRowColumnOrder(t *testing.T) {
	var names []string
	for _, c := range (EffectRow{}).Columns() {
		names = append(names, c.Name)
	}
	want := []string{ColPrePain, ColAge, ColHeight, ColWeight, ColGender, ColEthnicity, ColRace, ColUseTime}
	assert.Equal(t, want, names)
}
