package form

import (
	"net/url"
)

// Submission holds the answers exactly as entered. Nothing is parsed or
// checked here; see package patient for validation.
type Submission struct {
	Age          string   `json:"age" form:"age"`
	Gender       string   `json:"gender" form:"gender"`
	Ethnicity    string   `json:"ethnicity" form:"ethnicity"`
	Race         string   `json:"race" form:"race"`
	Weight       string   `json:"weight" form:"weight"`
	Height       string   `json:"height" form:"height"`
	PainLevel    string   `json:"pain_level" form:"pain_level"`
	Cause        string   `json:"cause" form:"cause"`
	PainLocation string   `json:"pain_location" form:"pain_location"`
	PainTime     string   `json:"pain_time" form:"pain_time"`
	Symptoms     []string `json:"symptoms" form:"symptoms"`
	Sleep        string   `json:"sleep" form:"sleep"`
}

// FromValues collects a submission from url-encoded form values.
func FromValues(v url.Values) Submission {
	return Submission{
		Age:          v.Get(KeyAge),
		Gender:       v.Get(KeyGender),
		Ethnicity:    v.Get(KeyEthnicity),
		Race:         v.Get(KeyRace),
		Weight:       v.Get(KeyWeight),
		Height:       v.Get(KeyHeight),
		PainLevel:    v.Get(KeyPainLevel),
		Cause:        v.Get(KeyCause),
		PainLocation: v.Get(KeyPainLocation),
		PainTime:     v.Get(KeyPainTime),
		Symptoms:     append([]string(nil), v[KeySymptoms]...),
		Sleep:        v.Get(KeySleep),
	}
}

// Value returns the scalar answer for key. Symptoms are not scalar and
// return "".
func (s Submission) Value(key string) string {
	switch key {
	case KeyAge:
		return s.Age
	case KeyGender:
		return s.Gender
	case KeyEthnicity:
		return s.Ethnicity
	case KeyRace:
		return s.Race
	case KeyWeight:
		return s.Weight
	case KeyHeight:
		return s.Height
	case KeyPainLevel:
		return s.PainLevel
	case KeyCause:
		return s.Cause
	case KeyPainLocation:
		return s.PainLocation
	case KeyPainTime:
		return s.PainTime
	case KeySleep:
		return s.Sleep
	}
	return ""
}

// Set stores a scalar answer by key and reports whether the key is known.
func (s *Submission) Set(key, value string) bool {
	switch key {
	case KeyAge:
		s.Age = value
	case KeyGender:
		s.Gender = value
	case KeyEthnicity:
		s.Ethnicity = value
	case KeyRace:
		s.Race = value
	case KeyWeight:
		s.Weight = value
	case KeyHeight:
		s.Height = value
	case KeyPainLevel:
		s.PainLevel = value
	case KeyCause:
		s.Cause = value
	case KeyPainLocation:
		s.PainLocation = value
	case KeyPainTime:
		s.PainTime = value
	case KeySleep:
		s.Sleep = value
	default:
		return false
	}
	return true
}

// HasSymptom reports whether option was selected.
func (s Submission) HasSymptom(option string) bool {
	for _, v := range s.Symptoms {
		if v == option {
			return true
		}
	}
	return false
}
