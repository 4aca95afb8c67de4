package attrition

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	ModelFile    = "attrition_model.json"
	EncodersFile = "label_encoders.json"
	FeaturesFile = "feature_columns.json"
)

var ErrUnavailable = errors.New("attrition model is not available")

// Classifier returns the probability of the positive (leaving) class for one encoded row.
type Classifier interface {
	PredictProbability(row map[string]float64) float64
}

// Logistic is a fitted logistic regression exported as plain coefficients.
type Logistic struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

func (l Logistic) PredictProbability(row map[string]float64) float64 {
	z := l.Intercept
	for feature, coef := range l.Coefficients {
		z += coef * row[feature]
	}
	return 1 / (1 + math.Exp(-z))
}

// Model bundles the classifier with the encoders and feature list it was trained with.
// It is read-only after construction.
type Model struct {
	classifier Classifier
	encoders   map[string][]string
	features   []string
}

func NewModel(classifier Classifier, encoders map[string][]string, features []string) *Model {
	if encoders == nil {
		encoders = map[string][]string{}
	}
	return &Model{
		classifier: classifier,
		encoders:   encoders,
		features:   append([]string(nil), features...),
	}
}

func (m *Model) Features() []string {
	return append([]string(nil), m.features...)
}

// Load reads the artifacts from dir. The encoders file is optional; the model and the
// feature list are not, and their absence yields ErrUnavailable.
func Load(dir string) (*Model, error) {
	var classifier Logistic
	if err := readJSON(filepath.Join(dir, ModelFile), &classifier); err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	var features []string
	if err := readJSON(filepath.Join(dir, FeaturesFile), &features); err != nil {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	if len(features) == 0 {
		return nil, errors.Wrap(ErrUnavailable, "feature list is empty")
	}
	encoders := map[string][]string{}
	if err := readJSON(filepath.Join(dir, EncodersFile), &encoders); err != nil {
		log.WithError(err).Warn("label encoders not loaded, categorical columns will be fitted ad hoc")
		encoders = map[string][]string{}
	}
	return NewModel(classifier, encoders, features), nil
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(data, out), "decode %s", filepath.Base(path))
}
