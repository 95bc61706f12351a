package model

// Column names the artifacts were fitted with.
const (
	ColPrePain      = "otc_prepain"
	ColAge          = "age"
	ColHeight       = "height"
	ColWeight       = "weight"
	ColGender       = "gender"
	ColRace         = "race"
	ColEthnicity    = "ethnicity"
	ColPainLocation = "otc_pain_location"
	ColPainTime     = "otc_pain_time"
	ColSymptoms     = "otc_cocomt_symptom"
	ColSleep        = "otc_sleep"
	ColCause        = "otc_cause"
	ColUseTime      = "otc_usetime"
)

// Column is one named cell of a row. Exactly one of Num or Text is
// meaningful, selected by Numeric.
type Column struct {
	Name    string
	Numeric bool
	Num     float64
	Text    string
}

func num(name string, v float64) Column { return Column{Name: name, Numeric: true, Num: v} }
func text(name, v string) Column       { return Column{Name: name, Text: v} }

// FeatureRow is the classifier input for one patient.
type FeatureRow struct {
	PrePain      int
	Age          int
	Height       float64
	Weight       float64
	Gender       string
	Race         string
	Ethnicity    string
	PainLocation string
	PainTime     string
	Symptoms     string
	Sleep        string
	Cause        string
}

// Columns is the only mapping from FeatureRow to named cells.
func (r FeatureRow) Columns() []Column {
	return []Column{
		num(ColPrePain, float64(r.PrePain)),
		num(ColAge, float64(r.Age)),
		num(ColHeight, r.Height),
		num(ColWeight, r.Weight),
		text(ColGender, r.Gender),
		text(ColRace, r.Race),
		text(ColEthnicity, r.Ethnicity),
		text(ColPainLocation, r.PainLocation),
		text(ColPainTime, r.PainTime),
		text(ColSymptoms, r.Symptoms),
		text(ColSleep, r.Sleep),
		text(ColCause, r.Cause),
	}
}

// EffectRow is the reduced input of the pain and weeks regressors.
type EffectRow struct {
	PrePain   int
	Age       int
	Height    float64
	Weight    float64
	Gender    string
	Ethnicity string
	Race      string
	UseTime   int
}

// Columns is the only mapping from EffectRow to named cells.
func (r EffectRow) Columns() []Column {
	return []Column{
		num(ColPrePain, float64(r.PrePain)),
		num(ColAge, float64(r.Age)),
		num(ColHeight, r.Height),
		num(ColWeight, r.Weight),
		text(ColGender, r.Gender),
		text(ColEthnicity, r.Ethnicity),
		text(ColRace, r.Race),
		num(ColUseTime, float64(r.UseTime)),
	}
}

func index(cols []Column) map[string]Column {
	m := make(map[string]Column, len(cols))
	for _, c := range cols {
		m[c.Name] = c
	}
	return m
}
