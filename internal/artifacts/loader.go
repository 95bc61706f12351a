// Package artifacts loads the fitted models and the reference dataset once at
// startup. A failed load is fatal; nothing is substituted.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Skufu/OTCAdvisor/internal/model"
)

// MinClasses is the number of labels the ranking needs.
const MinClasses = 3

// Sources says where each artifact lives.
type Sources struct {
	PreprocessorPath string
	PainModelPath    string
	WeeksModelPath   string
	ClassifierURL    string
	DatasetPath      string
}

// Bundle is the read-only set of artifacts shared by every request.
type Bundle struct {
	Preprocessor model.Preprocessor
	Classifier   model.Classifier
	PainModel    model.Regressor
	WeeksModel   model.Regressor
	Reference    *Dataset
}

type Loader struct {
	client *http.Client
	logger zerolog.Logger
}

func NewLoader(client *http.Client, logger zerolog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Loader{client: client, logger: logger}
}

// Load reads every artifact. Local files are read first so a bad deployment
// fails before the network fetch.
func (l *Loader) Load(ctx context.Context, src Sources) (*Bundle, error) {
	pre, err := loadFile(src.PreprocessorPath, model.DecodeColumnTransformer)
	if err != nil {
		return nil, fmt.Errorf("load preprocessor: %w", err)
	}
	pain, err := loadFile(src.PainModelPath, model.DecodeLinearRegressor)
	if err != nil {
		return nil, fmt.Errorf("load pain reduction model: %w", err)
	}
	weeks, err := loadFile(src.WeeksModelPath, model.DecodeLinearRegressor)
	if err != nil {
		return nil, fmt.Errorf("load weeks to effect model: %w", err)
	}

	clf, err := l.fetchClassifier(ctx, src.ClassifierURL)
	if err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	if n := len(clf.Labels); n < MinClasses {
		return nil, fmt.Errorf("load classifier: %d classes, need at least %d", n, MinClasses)
	}
	if clf.Width() != pre.Width() {
		return nil, fmt.Errorf("classifier expects %d features, preprocessor produces %d", clf.Width(), pre.Width())
	}

	ds, err := LoadDataset(src.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load reference dataset: %w", err)
	}

	l.logger.Info().
		Int("classes", len(clf.Labels)).
		Int("features", pre.Width()).
		Int("reference_rows", ds.Len()).
		Msg("artifacts loaded")

	return &Bundle{
		Preprocessor: pre,
		Classifier:   clf,
		PainModel:    pain,
		WeeksModel:   weeks,
		Reference:    ds,
	}, nil
}

func (l *Loader) fetchClassifier(ctx context.Context, url string) (*model.LogisticClassifier, error) {
	if url == "" {
		return nil, fmt.Errorf("no classifier URL configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: status %d: %s", url, resp.StatusCode, body)
	}

	clf, err := model.DecodeLogisticClassifier(resp.Body)
	if err != nil {
		return nil, err
	}
	l.logger.Debug().Str("url", url).Dur("took", time.Since(start)).Msg("classifier fetched")
	return clf, nil
}

func loadFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	if path == "" {
		return zero, fmt.Errorf("no path configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
