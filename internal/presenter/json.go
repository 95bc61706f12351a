package presenter

import (
	"github.com/Skufu/OTCAdvisor/internal/recommend"
)

type RecommendationView struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
	Display     string  `json:"display"`
}

type EstimateView struct {
	Label         string  `json:"label"`
	PainReduction float64 `json:"pain_reduction"`
	Weeks         float64 `json:"weeks"`
}

// View is the API representation of an outcome.
type View struct {
	Outcome         string               `json:"outcome"`
	Level           Level                `json:"level"`
	Message         string               `json:"message"`
	Recommendations []RecommendationView `json:"recommendations,omitempty"`
	Estimate        *EstimateView        `json:"estimate,omitempty"`
}

func NewView(o recommend.Outcome) View {
	v := View{
		Outcome: string(o.Kind),
		Level:   LevelOf(o.Kind),
		Message: Message(o),
	}
	if o.HasRanking() {
		for _, r := range o.Recommendations {
			v.Recommendations = append(v.Recommendations, RecommendationView{
				Label:       r.Label,
				Probability: r.Probability,
				Confidence:  r.Confidence,
				Display:     RecommendationLine(r),
			})
		}
	}
	if o.Estimate != nil {
		v.Estimate = &EstimateView{
			Label:         o.Estimate.Label,
			PainReduction: o.Estimate.PainReduction,
			Weeks:         o.Estimate.Weeks,
		}
	}
	return v
}
