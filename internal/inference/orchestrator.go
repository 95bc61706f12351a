// Package inference ranks OTC medications for a validated patient and
// estimates the effect of the top one.
package inference

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skufu/OTCAdvisor/internal/artifacts"
	"github.com/Skufu/OTCAdvisor/internal/model"
	"github.com/Skufu/OTCAdvisor/internal/patient"
)

const (
	// TopN is how many medications are ranked.
	TopN = 3
	// ConfidenceScale converts a class probability into the displayed
	// confidence. It is 310, not 100, so displayed values can exceed 100%.
	ConfidenceScale = 310.0
	// UsageWeeks is the simulated usage time given to both regressors.
	UsageWeeks = 4
)

// Recommendation is one ranked medication.
type Recommendation struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// EffectEstimate is the regressors' output for the top medication.
type EffectEstimate struct {
	Label         string  `json:"label"`
	PainReduction float64 `json:"pain_reduction"`
	Weeks         float64 `json:"weeks"`
}

// Result holds the ranking and either an estimate or the error that
// prevented one.
type Result struct {
	Recommendations []Recommendation
	Estimate        *EffectEstimate
	EstimateErr     error
}

type Orchestrator struct {
	bundle *artifacts.Bundle
	tracer trace.Tracer
}

func New(bundle *artifacts.Bundle) *Orchestrator {
	return &Orchestrator{
		bundle: bundle,
		tracer: otel.Tracer("github.com/Skufu/OTCAdvisor/internal/inference"),
	}
}

// Recommend ranks the classifier's labels for rec and estimates the effect of
// the top one. An error means no ranking could be produced; a failed estimate
// is reported in Result.EstimateErr instead.
func (o *Orchestrator) Recommend(ctx context.Context, rec patient.Record) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, "inference.Recommend")
	defer span.End()

	recs, err := o.rank(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classification failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("otc.top_label", recs[0].Label))

	res := &Result{Recommendations: recs}
	est, err := o.estimate(ctx, rec, recs[0].Label)
	if err != nil {
		span.RecordError(err)
		res.EstimateErr = err
		return res, nil
	}
	res.Estimate = est
	return res, nil
}

func (o *Orchestrator) rank(ctx context.Context, rec patient.Record) ([]Recommendation, error) {
	_, span := o.tracer.Start(ctx, "inference.rank")
	defer span.End()

	x, err := o.bundle.Preprocessor.Transform([]model.FeatureRow{FeatureRowFor(rec)})
	if err != nil {
		return nil, fmt.Errorf("transform features: %w", err)
	}
	if len(x) != 1 {
		return nil, fmt.Errorf("transform features: got %d rows, want 1", len(x))
	}

	probs, err := o.bundle.Classifier.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predict probabilities: %w", err)
	}
	classes := o.bundle.Classifier.Classes()
	if len(probs) != 1 || len(probs[0]) != len(classes) {
		return nil, fmt.Errorf("predict probabilities: shape does not match %d classes", len(classes))
	}
	if len(classes) < TopN {
		return nil, fmt.Errorf("classifier has %d classes, need %d", len(classes), TopN)
	}
	return Rank(classes, probs[0], TopN), nil
}

// estimate runs both regressors. A panic inside a regressor is reported as an
// error like any other failure.
func (o *Orchestrator) estimate(ctx context.Context, rec patient.Record, label string) (est *EffectEstimate, err error) {
	_, span := o.tracer.Start(ctx, "inference.estimate")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			est, err = nil, fmt.Errorf("%v", r)
		}
	}()

	rows := []model.EffectRow{EffectRowFor(rec)}
	reduction, err := predictOne(o.bundle.PainModel, rows)
	if err != nil {
		return nil, err
	}
	weeks, err := predictOne(o.bundle.WeeksModel, rows)
	if err != nil {
		return nil, err
	}
	return &EffectEstimate{Label: label, PainReduction: reduction, Weeks: weeks}, nil
}

func predictOne(r model.Regressor, rows []model.EffectRow) (float64, error) {
	y, err := r.Predict(rows)
	if err != nil {
		return 0, err
	}
	if len(y) != 1 {
		return 0, fmt.Errorf("regressor returned %d values, want 1", len(y))
	}
	return y[0], nil
}

// FeatureRowFor maps a patient to the classifier input.
func FeatureRowFor(rec patient.Record) model.FeatureRow {
	return model.FeatureRow{
		PrePain:      rec.PainLevel,
		Age:          rec.Age,
		Height:       rec.Height,
		Weight:       rec.Weight,
		Gender:       rec.Gender,
		Race:         rec.Race,
		Ethnicity:    rec.Ethnicity,
		PainLocation: rec.PainLocation,
		PainTime:     rec.PainTime,
		Symptoms:     rec.SymptomList(),
		Sleep:        rec.Sleep,
		Cause:        rec.Cause,
	}
}

// EffectRowFor maps a patient to the regressor input.
func EffectRowFor(rec patient.Record) model.EffectRow {
	return model.EffectRow{
		PrePain:   rec.PainLevel,
		Age:       rec.Age,
		Height:    rec.Height,
		Weight:    rec.Weight,
		Gender:    rec.Gender,
		Ethnicity: rec.Ethnicity,
		Race:      rec.Race,
		UseTime:   UsageWeeks,
	}
}
