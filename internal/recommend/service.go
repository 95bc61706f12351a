// Package recommend runs one form submission end to end: validation, then
// ranking and effect estimation, producing exactly one Outcome.
package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Skufu/OTCAdvisor/internal/audit"
	"github.com/Skufu/OTCAdvisor/internal/form"
	"github.com/Skufu/OTCAdvisor/internal/inference"
	"github.com/Skufu/OTCAdvisor/internal/patient"
	"github.com/Skufu/OTCAdvisor/internal/telemetry"
)

// Kind is the primary outcome of a submission.
type Kind string

const (
	KindIncomplete    Kind = Kind(patient.KindIncomplete)
	KindInvalidNumber Kind = Kind(patient.KindInvalidNumber)
	KindZeroPain      Kind = Kind(patient.KindZeroPain)
	KindAgeIneligible Kind = Kind(patient.KindAgeIneligible)
	// KindRecommended carries a ranking and an effect estimate.
	KindRecommended Kind = "recommended"
	// KindRecommendedNoEstimate carries a ranking and the estimate error.
	KindRecommendedNoEstimate Kind = "recommended_without_estimate"
	// KindFailed means the ranking itself could not be produced.
	KindFailed Kind = "failed"
)

// Outcome is everything the presenter needs for one submission.
type Outcome struct {
	Kind            Kind
	Message         string
	Recommendations []inference.Recommendation
	Estimate        *inference.EffectEstimate
	Err             error
}

// Rejected reports whether validation stopped the submission.
func (o Outcome) Rejected() bool {
	switch o.Kind {
	case KindIncomplete, KindInvalidNumber, KindZeroPain, KindAgeIneligible:
		return true
	}
	return false
}

// HasRanking reports whether recommendations are present.
func (o Outcome) HasRanking() bool {
	return o.Kind == KindRecommended || o.Kind == KindRecommendedNoEstimate
}

// Recommender is the part of the orchestrator the service depends on.
type Recommender interface {
	Recommend(ctx context.Context, rec patient.Record) (*inference.Result, error)
}

type Service struct {
	recommender Recommender
	recorder    audit.Recorder
	metrics     *telemetry.Metrics
	logger      zerolog.Logger
}

type Option func(*Service)

// WithRecorder stores every outcome through r.
func WithRecorder(r audit.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(r Recommender, opts ...Option) *Service {
	s := &Service{recommender: r, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the submission and, if it passes, asks the models.
// No model is called for a rejected submission.
func (s *Service) Submit(ctx context.Context, sub form.Submission) Outcome {
	out := s.submit(ctx, sub)
	s.metrics.RecordOutcome(ctx, string(out.Kind))
	s.record(ctx, out)
	return out
}

func (s *Service) submit(ctx context.Context, sub form.Submission) Outcome {
	rec, err := patient.Validate(sub)
	if err != nil {
		var verr *patient.ValidationError
		if errors.As(err, &verr) {
			s.logger.Debug().Str("outcome", string(verr.Kind)).Msg("submission rejected")
			return Outcome{Kind: Kind(verr.Kind), Message: verr.Message, Err: err}
		}
		return Outcome{Kind: KindFailed, Err: err}
	}

	start := time.Now()
	res, err := s.recommender.Recommend(ctx, rec)
	s.metrics.RecordInference(ctx, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		s.logger.Error().Err(err).Msg("classification failed")
		return Outcome{Kind: KindFailed, Err: err}
	}

	out := Outcome{Recommendations: res.Recommendations}
	if res.EstimateErr != nil {
		s.logger.Warn().Err(res.EstimateErr).Str("top_label", topLabel(res)).Msg("effect estimate failed")
		out.Kind = KindRecommendedNoEstimate
		out.Err = res.EstimateErr
		return out
	}
	out.Kind = KindRecommended
	out.Estimate = res.Estimate
	s.logger.Info().Str("top_label", topLabel(res)).Msg("recommendation produced")
	return out
}

func (s *Service) record(ctx context.Context, out Outcome) {
	if s.recorder == nil {
		return
	}
	e := audit.Entry{Outcome: string(out.Kind)}
	if len(out.Recommendations) > 0 {
		e.TopLabel = out.Recommendations[0].Label
	}
	if err := s.recorder.Record(ctx, e); err != nil {
		s.logger.Warn().Err(err).Msg("audit record failed")
	}
}

func topLabel(res *inference.Result) string {
	if len(res.Recommendations) == 0 {
		return ""
	}
	return res.Recommendations[0].Label
}
