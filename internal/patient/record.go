// Package patient turns raw questionnaire answers into a validated Record.
package patient

import "strings"

const (
	// MinAge is the youngest patient the models were trained for.
	MinAge = 50
	// MaxPainLevel is the top of the 0-10 pain scale.
	MaxPainLevel = 10
)

// Record is one validated submission. It is built per request and never
// stored.
type Record struct {
	Age          int
	Gender       string
	Ethnicity    string
	Race         string
	Weight       float64
	Height       float64
	PainLevel    int
	PainLocation string
	PainTime     string
	Symptoms     []string
	Sleep        string
	Cause        string
}

// SymptomList joins the selected symptoms the way the preprocessor was fitted:
// comma separated, empty when nothing was selected.
func (r Record) SymptomList() string {
	return strings.Join(r.Symptoms, ",")
}
