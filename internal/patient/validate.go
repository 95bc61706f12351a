package patient

import (
	"math"
	"strconv"
	"strings"

	"github.com/Skufu/OTCAdvisor/internal/form"
)

// Kind classifies why a submission was rejected.
type Kind string

const (
	KindIncomplete    Kind = "incomplete"
	KindInvalidNumber Kind = "invalid_number"
	KindZeroPain      Kind = "zero_pain"
	KindAgeIneligible Kind = "age_ineligible"
)

const (
	MsgIncomplete     = "Please fill in every field."
	MsgInvalidNumber  = "Age, weight, height, and pain level must be numeric."
	MsgPainOutOfRange = "Pain level must be between 0 and 10."
	MsgZeroPain       = "A pain level of 0 indicates no pain. No OTC medication can be recommended in this case."
	MsgAgeIneligible  = "This tool is designed for patients aged 50 and above."
)

// ValidationError is returned by Validate. Message is shown to the user as is.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Advisory reports whether the input was well-formed but out of scope for a
// recommendation.
func (e *ValidationError) Advisory() bool {
	return e.Kind == KindZeroPain
}

// RequiredKeys lists the answers that must be present. Symptoms may be empty.
var RequiredKeys = []string{
	form.KeyAge, form.KeyGender, form.KeyRace, form.KeyEthnicity,
	form.KeyWeight, form.KeyHeight, form.KeyPainLevel, form.KeyPainLocation,
	form.KeyPainTime, form.KeySleep, form.KeyCause,
}

var numericKeys = map[string]bool{
	form.KeyAge:       true,
	form.KeyWeight:    true,
	form.KeyHeight:    true,
	form.KeyPainLevel: true,
}

// Validate checks, in order: completeness, numeric parsing, zero pain and the
// age floor. The first failing rule wins.
func Validate(s form.Submission) (Record, error) {
	values := make(map[string]string, len(RequiredKeys))
	for _, key := range RequiredKeys {
		raw := s.Value(key)
		v := strings.TrimSpace(raw)
		// A typed-in number counts as answered even when blank, so
		// "   " fails as non-numeric. Choices must name an option.
		if raw == "" || (v == "" && !numericKeys[key]) {
			return Record{}, &ValidationError{Kind: KindIncomplete, Message: MsgIncomplete}
		}
		values[key] = v
	}

	age, errAge := strconv.Atoi(values[form.KeyAge])
	weight, errWeight := parseFinite(values[form.KeyWeight])
	height, errHeight := parseFinite(values[form.KeyHeight])
	pain, errPain := strconv.Atoi(values[form.KeyPainLevel])
	if errAge != nil || errWeight != nil || errHeight != nil || errPain != nil {
		return Record{}, &ValidationError{Kind: KindInvalidNumber, Message: MsgInvalidNumber}
	}
	if pain < 0 || pain > MaxPainLevel {
		return Record{}, &ValidationError{Kind: KindInvalidNumber, Message: MsgPainOutOfRange}
	}
	if pain == 0 {
		return Record{}, &ValidationError{Kind: KindZeroPain, Message: MsgZeroPain}
	}
	if age < MinAge {
		return Record{}, &ValidationError{Kind: KindAgeIneligible, Message: MsgAgeIneligible}
	}

	return Record{
		Age:          age,
		Gender:       values[form.KeyGender],
		Ethnicity:    values[form.KeyEthnicity],
		Race:         values[form.KeyRace],
		Weight:       weight,
		Height:       height,
		PainLevel:    pain,
		PainLocation: values[form.KeyPainLocation],
		PainTime:     values[form.KeyPainTime],
		Symptoms:     selectedSymptoms(s.Symptoms),
		Sleep:        values[form.KeySleep],
		Cause:        values[form.KeyCause],
	}, nil
}

func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}

// selectedSymptoms drops blank entries. Option text is kept verbatim because
// some fitted categories end in whitespace.
func selectedSymptoms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
