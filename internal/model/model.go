package model

import (
	"encoding/json"
	"fmt"
)

// Predictor is the capability exposed by the externally-trained price model.
// The engine never inspects model internals; it only submits a feature row
// in the agreed order and receives a price.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// LinearModel is a price model materialised from a trainer-exported
// artifact: an intercept plus one weight per feature, in contract order.
type LinearModel struct {
	Version      string    `json:"version"`
	Intercept    float64   `json:"intercept"`
	FeatureNames []string  `json:"features"`
	Weights      []float64 `json:"weights"`
}

// ParseLinearModel decodes and validates a model artifact payload.
func ParseLinearModel(payload []byte) (*LinearModel, error) {
	var m LinearModel
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("model: decode artifact: %w", err)
	}
	if len(m.Weights) == 0 {
		return nil, fmt.Errorf("model: artifact has no weights")
	}
	if len(m.FeatureNames) != len(m.Weights) {
		return nil, fmt.Errorf("model: %d feature names but %d weights", len(m.FeatureNames), len(m.Weights))
	}
	return &m, nil
}

// Predict computes the price for one feature row.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("model: expected %d features, got %d", len(m.Weights), len(features))
	}
	price := m.Intercept
	for i, w := range m.Weights {
		price += w * features[i]
	}
	return price, nil
}

var _ Predictor = (*LinearModel)(nil)
