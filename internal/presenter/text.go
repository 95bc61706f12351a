// Package presenter turns a recommendation Outcome into text, JSON and HTML.
package presenter

import (
	"fmt"

	"github.com/Skufu/OTCAdvisor/internal/inference"
	"github.com/Skufu/OTCAdvisor/internal/recommend"
)

const RankingTitle = "Top 3 OTC Recommendations"

// Level is the visual severity of an outcome.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
)

// LevelOf maps an outcome kind to its severity.
func LevelOf(k recommend.Kind) Level {
	switch k {
	case recommend.KindRecommended:
		return LevelSuccess
	case recommend.KindZeroPain, recommend.KindRecommendedNoEstimate:
		return LevelWarning
	default:
		return LevelError
	}
}

// RecommendationLine formats one ranked medication.
func RecommendationLine(r inference.Recommendation) string {
	return fmt.Sprintf("- %s: %.1f%% confidence", r.Label, r.Confidence)
}

// EstimateSentence is the success message for the top medication.
func EstimateSentence(e inference.EffectEstimate) string {
	return fmt.Sprintf("By following %s, you may reduce your pain by %.1f points in about %.1f weeks.",
		e.Label, e.PainReduction, e.Weeks)
}

// EstimateWarning replaces the success message when the regressors failed.
func EstimateWarning(err error) string {
	return fmt.Sprintf("Could not estimate pain reduction or weeks to effect: %v", err)
}

// FailureMessage is shown when no ranking could be produced.
func FailureMessage(err error) string {
	return fmt.Sprintf("Could not generate OTC recommendations: %v", err)
}

// Message is the single status sentence of an outcome.
func Message(o recommend.Outcome) string {
	switch o.Kind {
	case recommend.KindRecommended:
		if o.Estimate == nil {
			return ""
		}
		return EstimateSentence(*o.Estimate)
	case recommend.KindRecommendedNoEstimate:
		return EstimateWarning(o.Err)
	case recommend.KindFailed:
		return FailureMessage(o.Err)
	default:
		return o.Message
	}
}

// Lines renders an outcome as plain text lines.
func Lines(o recommend.Outcome) []string {
	if !o.HasRanking() {
		return []string{Message(o)}
	}
	lines := make([]string, 0, len(o.Recommendations)+2)
	lines = append(lines, RankingTitle)
	for _, r := range o.Recommendations {
		lines = append(lines, RecommendationLine(r))
	}
	if msg := Message(o); msg != "" {
		lines = append(lines, msg)
	}
	return lines
}
