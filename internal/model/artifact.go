package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// Artifact kinds.
const (
	KindColumnTransformer  = "column_transformer"
	KindLogisticClassifier = "logistic_classifier"
	KindLinearRegressor    = "linear_regressor"
)

const artifactVersion = 1

type envelope struct {
	Kind    string          `json:"kind"`
	Version int             `json:"version"`
	Spec    json.RawMessage `json:"spec"`
}

func decode(r io.Reader, kind string, into interface{}) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("decode %s artifact: %w", kind, err)
	}
	if env.Kind != kind {
		return fmt.Errorf("artifact kind %q, want %q", env.Kind, kind)
	}
	if env.Version != artifactVersion {
		return fmt.Errorf("%s artifact version %d not supported", kind, env.Version)
	}
	if len(env.Spec) == 0 {
		return fmt.Errorf("%s artifact has no spec", kind)
	}
	if err := json.Unmarshal(env.Spec, into); err != nil {
		return fmt.Errorf("decode %s spec: %w", kind, err)
	}
	return nil
}

// Encode writes v inside a versioned envelope of the given kind.
func Encode(w io.Writer, kind string, v interface{}) error {
	spec, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s spec: %w", kind, err)
	}
	return json.NewEncoder(w).Encode(envelope{Kind: kind, Version: artifactVersion, Spec: spec})
}

// DecodeColumnTransformer reads a preprocessor artifact.
func DecodeColumnTransformer(r io.Reader) (*ColumnTransformer, error) {
	var ct ColumnTransformer
	if err := decode(r, KindColumnTransformer, &ct); err != nil {
		return nil, err
	}
	if err := ct.Validate(); err != nil {
		return nil, err
	}
	return &ct, nil
}

// DecodeLogisticClassifier reads a classifier artifact.
func DecodeLogisticClassifier(r io.Reader) (*LogisticClassifier, error) {
	var lc LogisticClassifier
	if err := decode(r, KindLogisticClassifier, &lc); err != nil {
		return nil, err
	}
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	return &lc, nil
}

// DecodeLinearRegressor reads a regressor artifact.
func DecodeLinearRegressor(r io.Reader) (*LinearRegressor, error) {
	var lr LinearRegressor
	if err := decode(r, KindLinearRegressor, &lr); err != nil {
		return nil, err
	}
	if err := lr.Validate(); err != nil {
		return nil, err
	}
	return &lr, nil
}
