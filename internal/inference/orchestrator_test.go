package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/OTCAdvisor/internal/artifacts"
	"github.com/Skufu/OTCAdvisor/internal/model"
	"github.com/Skufu/OTCAdvisor/internal/patient"
)

type fakePreprocessor struct {
	rows []model.FeatureRow
	err  error
}

func (f *fakePreprocessor) Transform(rows []model.FeatureRow) (model.Matrix, error) {
	f.rows = append(f.rows, rows...)
	if f.err != nil {
		return nil, f.err
	}
	return model.Matrix{{1, 2, 3}}, nil
}

type fakeClassifier struct {
	classes []string
	probs   []float64
	err     error
}

func (f *fakeClassifier) Classes() []string { return f.classes }

func (f *fakeClassifier) PredictProba(x model.Matrix) (model.Matrix, error) {
	if f.err != nil {
		return nil, f.err
	}
	return model.Matrix{f.probs}, nil
}

type fakeRegressor struct {
	value float64
	err   error
	panic bool
	rows  []model.EffectRow
}

func (f *fakeRegressor) Predict(rows []model.EffectRow) ([]float64, error) {
	f.rows = append(f.rows, rows...)
	if f.panic {
		panic("index out of range")
	}
	if f.err != nil {
		return nil, f.err
	}
	return []float64{f.value}, nil
}

func testRecord() patient.Record {
	return patient.Record{
		Age: 64, Gender: "Male", Ethnicity: "No", Race: "Asian",
		Weight: 170.5, Height: 68, PainLevel: 7,
		PainLocation: "In the front of your knee",
		PainTime:     "Feel more pain at night, especially if you were physically active earlier that day.",
		Symptoms:     []string{"Dull pain", "Swelling"},
		Sleep:        "Abnormal sleep pattern",
		Cause:        "Overweight or obesity",
	}
}

type harness struct {
	pre   *fakePreprocessor
	clf   *fakeClassifier
	pain  *fakeRegressor
	weeks *fakeRegressor
	orch  *Orchestrator
}

func newHarness() *harness {
	h := &harness{
		pre: &fakePreprocessor{},
		clf: &fakeClassifier{
			classes: []string{"Acetaminophen", "Ibuprofen", "Naproxen", "Diclofenac gel", "Aspirin"},
			probs:   []float64{0.10, 0.35, 0.05, 0.30, 0.20},
		},
		pain:  &fakeRegressor{value: 2.34},
		weeks: &fakeRegressor{value: 3.06},
	}
	h.orch = New(&artifacts.Bundle{
		Preprocessor: h.pre,
		Classifier:   h.clf,
		PainModel:    h.pain,
		WeeksModel:   h.weeks,
	})
	return h
}

func TestRecommendRanksTopThree(t *testing.T) {
	h := newHarness()
	res, err := h.orch.Recommend(context.Background(), testRecord())
	require.NoError(t, err)

	require.Len(t, res.Recommendations, 3)
	assert.Equal(t, "Ibuprofen", res.Recommendations[0].Label)
	assert.Equal(t, "Diclofenac gel", res.Recommendations[1].Label)
	assert.Equal(t, "Aspirin", res.Recommendations[2].Label)
	for i, r := range res.Recommendations {
		assert.Equal(t, r.Probability*310, r.Confidence, "rank %d", i)
	}

	require.NoError(t, res.EstimateErr)
	require.NotNil(t, res.Estimate)
	assert.Equal(t, EffectEstimate{Label: "Ibuprofen", PainReduction: 2.34, Weeks: 3.06}, *res.Estimate)
}

func TestRecommendBuildsRows(t *testing.T) {
	h := newHarness()
	_, err := h.orch.Recommend(context.Background(), testRecord())
	require.NoError(t, err)

	require.Len(t, h.pre.rows, 1)
	row := h.pre.rows[0]
	assert.Equal(t, 7, row.PrePain)
	assert.Equal(t, "Dull pain,Swelling", row.Symptoms)
	assert.Equal(t, "Abnormal sleep pattern", row.Sleep)

	require.Len(t, h.pain.rows, 1)
	assert.Equal(t, model.EffectRow{
		PrePain: 7, Age: 64, Height: 68, Weight: 170.5,
		Gender: "Male", Ethnicity: "No", Race: "Asian", UseTime: 4,
	}, h.pain.rows[0])
	assert.Equal(t, h.pain.rows, h.weeks.rows)
}

func TestRecommendEmptySymptoms(t *testing.T) {
	h := newHarness()
	rec := testRecord()
	rec.Symptoms = nil
	_, err := h.orch.Recommend(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "", h.pre.rows[0].Symptoms)
}

func TestRecommendRegressionFailureKeepsRanking(t *testing.T) {
	h := newHarness()
	h.weeks.err = errors.New("feature names mismatch")

	res, err := h.orch.Recommend(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
	assert.Nil(t, res.Estimate)
	require.Error(t, res.EstimateErr)
	assert.Contains(t, res.EstimateErr.Error(), "feature names mismatch")
}

func TestRecommendRegressionPanicBecomesError(t *testing.T) {
	h := newHarness()
	h.pain.panic = true

	res, err := h.orch.Recommend(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
	require.Error(t, res.EstimateErr)
	assert.Contains(t, res.EstimateErr.Error(), "index out of range")
	assert.Empty(t, h.weeks.rows)
}

func TestRecommendClassifierFailure(t *testing.T) {
	h := newHarness()
	h.clf.err = errors.New("boom")

	_, err := h.orch.Recommend(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, h.pain.rows)
}

func TestRecommendPreprocessorFailure(t *testing.T) {
	h := newHarness()
	h.pre.err = errors.New("unknown column")

	_, err := h.orch.Recommend(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform features")
}

func TestRecommendShapeMismatch(t *testing.T) {
	h := newHarness()
	h.clf.probs = []float64{0.5, 0.5}

	_, err := h.orch.Recommend(context.Background(), testRecord())
	assert.Error(t, err)
}

func TestRecommendIsIdempotent(t *testing.T) {
	h := newHarness()
	first, err := h.orch.Recommend(context.Background(), testRecord())
	require.NoError(t, err)
	second, err := h.orch.Recommend(context.Background(), testRecord())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
