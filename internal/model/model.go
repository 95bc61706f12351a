// Package model defines the interfaces of the fitted artifacts used for
// inference and the JSON formats they are exported in.
package model

// Matrix is a dense row-major feature or probability matrix.
type Matrix [][]float64

// Preprocessor turns typed rows into the numeric matrix the classifier was
// fitted on.
type Preprocessor interface {
	Transform(rows []FeatureRow) (Matrix, error)
}

// Classifier scores a feature matrix against a fixed list of class labels.
// PredictProba returns one row per input row and one column per label, in
// the order of Classes.
type Classifier interface {
	Classes() []string
	PredictProba(x Matrix) (Matrix, error)
}

// Regressor maps each effect row to a scalar.
type Regressor interface {
	Predict(rows []EffectRow) ([]float64, error)
}
