package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Skufu/OTCAdvisor/internal/form"
	"github.com/Skufu/OTCAdvisor/internal/inference"
	"github.com/Skufu/OTCAdvisor/internal/recommend"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	inputPos  int
	selectPos int
	multiPos  int
	asked     []string
}

func (s *stubDriver) Input(_ context.Context, cfg inputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg selectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg selectConfig) ([]int, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

type captureSubmitter struct {
	got form.Submission
	out recommend.Outcome
}

func (c *captureSubmitter) Submit(_ context.Context, sub form.Submission) recommend.Outcome {
	c.got = sub
	return c.out
}

func scriptedDriver() *stubDriver {
	return &stubDriver{
		// age, weight, height, pain level
		inputs: []string{"66", "150", "64", "7"},
		// gender, ethnicity, race, cause, location, time, sleep
		selectIdx: []int{1, 1, 0, 3, 1, 3, 2},
		multiIdx:  [][]int{{4, 6}},
	}
}

func TestCollectFollowsCatalogOrder(t *testing.T) {
	catalog, err := form.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	d := scriptedDriver()

	sub, err := collect(context.Background(), d, catalog)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := form.Submission{
		Age:          "66",
		Gender:       "Female",
		Ethnicity:    "No",
		Race:         "White",
		Weight:       "150",
		Height:       "64",
		PainLevel:    "7",
		Cause:        "Aging Such as osteoarthritis",
		PainLocation: "All over the knee",
		PainTime:     "Feel more pain during bad weather.",
		Symptoms:     []string{"Stiffness", "Instability or weakness (having trouble walking, limping) "},
		Sleep:        "None of the above",
	}
	if diff := cmp.Diff(want, sub); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if len(d.asked) != len(catalog.Fields()) {
		t.Fatalf("asked %d questions, want %d", len(d.asked), len(catalog.Fields()))
	}
}

func TestCollectStopsOnAbort(t *testing.T) {
	catalog, err := form.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	d := &stubDriver{inputs: []string{"66"}}

	if _, err := collect(context.Background(), d, catalog); err == nil {
		t.Fatal("expected error when the driver runs out of answers")
	}
}

func TestRunPrintsOutcome(t *testing.T) {
	catalog, err := form.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	svc := &captureSubmitter{out: recommend.Outcome{
		Kind: recommend.KindRecommended,
		Recommendations: []inference.Recommendation{
			{Label: "Ibuprofen", Probability: 0.25, Confidence: 77.5},
			{Label: "Naproxen", Probability: 0.2, Confidence: 62},
			{Label: "Acetaminophen", Probability: 0.1, Confidence: 31},
		},
		Estimate: &inference.EffectEstimate{Label: "Ibuprofen", PainReduction: 3.04, Weeks: 2.96},
	}}

	var buf bytes.Buffer
	if err := run(context.Background(), &buf, scriptedDriver(), catalog, svc); err != nil {
		t.Fatalf("run: %v", err)
	}

	if svc.got.PainLevel != "7" {
		t.Fatalf("submitted pain level %q, want 7", svc.got.PainLevel)
	}
	out := buf.String()
	for _, want := range []string{
		"Top 3 OTC Recommendations",
		"- Ibuprofen: 77.5% confidence",
		"- Naproxen: 62.0% confidence",
		"By following Ibuprofen, you may reduce your pain by 3.0 points in about 3.0 weeks.",
	} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunPrintsRejection(t *testing.T) {
	catalog, err := form.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	svc := &captureSubmitter{out: recommend.Outcome{
		Kind:    recommend.KindAgeIneligible,
		Message: "This tool is designed for patients aged 50 and above.",
	}}

	var buf bytes.Buffer
	if err := run(context.Background(), &buf, scriptedDriver(), catalog, svc); err != nil {
		t.Fatalf("run: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("Top 3")) {
		t.Fatalf("rejection should not print a ranking:\n%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("aged 50 and above")) {
		t.Fatalf("missing rejection message:\n%s", buf.String())
	}
}
