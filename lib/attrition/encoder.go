package attrition

import (
	"sort"

	"hr-agent-backend/lib/docstore"
)

// unknownCategory is what a value outside a pretrained encoder's classes maps to.
const unknownCategory = -1

// encode turns records into feature rows. String columns go through the pretrained encoder when
// there is one, otherwise through an encoder fitted on this batch. Missing features are zero.
func (m *Model) encode(recs []docstore.Record) []map[string]float64 {
	adHoc := map[string]map[string]float64{}
	for _, col := range categoricalColumns(recs) {
		if classes, ok := m.encoders[col]; ok {
			adHoc[col] = indexOf(classes)
			continue
		}
		adHoc[col] = fit(recs, col)
	}

	rows := make([]map[string]float64, 0, len(recs))
	for _, rec := range recs {
		row := make(map[string]float64, len(m.features))
		for _, e := range rec {
			if e.Key == "_id" {
				continue
			}
			if s, ok := e.Value.(string); ok {
				if code, known := adHoc[e.Key][s]; known {
					row[e.Key] = code
				} else {
					row[e.Key] = unknownCategory
				}
				continue
			}
			if f, ok := docstore.Float(e.Value); ok {
				row[e.Key] = f
			}
		}
		for _, feature := range m.features {
			if _, ok := row[feature]; !ok {
				row[feature] = 0
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func categoricalColumns(recs []docstore.Record) []string {
	seen := map[string]bool{}
	cols := []string{}
	for _, rec := range recs {
		for _, e := range rec {
			if _, ok := e.Value.(string); ok && !seen[e.Key] && e.Key != "_id" {
				seen[e.Key] = true
				cols = append(cols, e.Key)
			}
		}
	}
	return cols
}

// fit assigns codes to the sorted distinct values of col.
func fit(recs []docstore.Record, col string) map[string]float64 {
	distinct := map[string]bool{}
	for _, rec := range recs {
		if v, ok := docstore.Get(rec, col); ok {
			if s, ok := v.(string); ok {
				distinct[s] = true
			}
		}
	}
	classes := make([]string, 0, len(distinct))
	for s := range distinct {
		classes = append(classes, s)
	}
	sort.Strings(classes)
	return indexOf(classes)
}

func indexOf(classes []string) map[string]float64 {
	out := make(map[string]float64, len(classes))
	for idx, class := range classes {
		out[class] = float64(idx)
	}
	return out
}

// Predict returns the leaving probability of every record, in input order.
func (m *Model) Predict(recs []docstore.Record) []float64 {
	rows := m.encode(recs)
	probs := make([]float64, 0, len(rows))
	for _, row := range rows {
		features := make(map[string]float64, len(m.features))
		for _, f := range m.features {
			features[f] = row[f]
		}
		probs = append(probs, m.classifier.PredictProbability(features))
	}
	return probs
}
