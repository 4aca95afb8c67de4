package analytics

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const ForecastFile = "performance_forecast.json"

// Forecaster is an additive level, trend and seasonality model fitted offline.
type Forecaster struct {
	Level    float64   `json:"level"`
	Trend    float64   `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
}

// Forecast returns the next periods values. periods is clamped to 1..12.
func (f Forecaster) Forecast(periods int) []float64 {
	periods = clampPeriods(periods)
	out := make([]float64, periods)
	for h := 1; h <= periods; h++ {
		v := f.Level + f.Trend*float64(h)
		if n := len(f.Seasonal); n > 0 {
			v += f.Seasonal[(h-1)%n]
		}
		out[h-1] = math.Round(v*100) / 100
	}
	return out
}

func clampPeriods(periods int) int {
	switch {
	case periods < 1:
		return 1
	case periods > 12:
		return 12
	}
	return periods
}

// LoadForecaster reads the artifact from dir.
func LoadForecaster(dir string) (*Forecaster, error) {
	data, err := os.ReadFile(filepath.Join(dir, ForecastFile))
	if err != nil {
		return nil, err
	}
	f := &Forecaster{}
	if err = json.Unmarshal(data, f); err != nil {
		return nil, errors.Wrapf(err, "decode %s", ForecastFile)
	}
	return f, nil
}
