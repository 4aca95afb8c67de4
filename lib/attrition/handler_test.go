package attrition

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	"hr-agent-backend/models"
)

type classifierFunc func(row map[string]float64) float64

func (f classifierFunc) PredictProbability(row map[string]float64) float64 { return f(row) }

// riskFeature turns the "Risk" column straight into the probability.
var riskFeature = classifierFunc(func(row map[string]float64) float64 { return row["Risk"] })

func seed() *memstore.Store {
	store := memstore.New()
	store.Seed(docstore.AttritionCollection,
		bson.D{{Key: "EmployeeID", Value: "E1"}, {Key: "Risk", Value: 0.20}},
		bson.D{{Key: "EmployeeID", Value: "E2"}, {Key: "Risk", Value: 0.90}},
		bson.D{{Key: "EmployeeID", Value: "E3"}, {Key: "Risk", Value: 0.70}},
		bson.D{{Key: "EmployeeID", Value: "E4"}, {Key: "Risk", Value: 0.55}},
		bson.D{{Key: "EmployeeNumber", Value: 1005}, {Key: "Risk", Value: 0.10}, {Key: "Name", Value: "Row Name"}},
	)
	store.Seed(docstore.EmployeeCollection,
		bson.D{{Key: "Employee_ID", Value: "E2"}, {Key: "Name", Value: "Bea"}},
		bson.D{{Key: "EmployeeID", Value: "E3"}, {Key: "EmployeeName", Value: "Cal"}},
	)
	return store
}

func TestRank(t *testing.T) {
	ctx := context.Background()
	h := New(seed(), NewModel(riskFeature, nil, []string{"Risk"}))

	t.Run(`top 3 sorted descending check`, func(t *testing.T) {
		res := h.Handle(ctx, "top 3 high risk employees")
		require.True(t, res.Success)
		ranking := res.Data.(Ranking)
		require.Equal(t, 3, ranking.TopN)
		require.Len(t, ranking.Entries, 3)
		require.True(t, sort.SliceIsSorted(ranking.Entries, func(a, b int) bool {
			return ranking.Entries[a].Probability > ranking.Entries[b].Probability
		}))
		require.Equal(t, "E2", ranking.Entries[0].EmployeeID)
		require.Equal(t, "Bea", ranking.Entries[0].Name)
		require.Equal(t, BandCritical, ranking.Entries[0].Band)
		require.Equal(t, "Cal", ranking.Entries[1].Name)
		require.Equal(t, BandHigh, ranking.Entries[1].Band)
		require.Equal(t, "Employee E4", ranking.Entries[2].Name)
		require.Contains(t, res.Answer, "Top 3 High-Risk Attrition Employees")
	})

	t.Run(`aggregates check`, func(t *testing.T) {
		ranking, err := h.Rank(ctx, 5)
		require.NoError(t, err)
		require.Equal(t, 5, ranking.Total)
		require.InDelta(t, 0.49, ranking.MeanRisk, 1e-9)
		require.Equal(t, 3, ranking.AboveHalf)
		require.Equal(t, 1, ranking.AboveSeventy)
		require.Equal(t, "1005", ranking.Entries[4].EmployeeID)
		require.Equal(t, "Row Name", ranking.Entries[4].Name)
	})

	t.Run(`top n never exceeds population check`, func(t *testing.T) {
		ranking, err := h.Rank(ctx, 50)
		require.NoError(t, err)
		require.Len(t, ranking.Entries, 5)
	})

	t.Run(`default top n check`, func(t *testing.T) {
		require.Equal(t, 5, ParseTopN("who is likely to leave"))
		require.Equal(t, 12, ParseTopN("show top 12 of 40"))
	})
}

func TestBandOf(t *testing.T) {
	t.Run(`exclusive boundaries check`, func(t *testing.T) {
		require.Equal(t, BandHigh, BandOf(0.70))
		require.Equal(t, BandCritical, BandOf(0.7000001))
		require.Equal(t, BandModerate, BandOf(0.50))
		require.Equal(t, BandHigh, BandOf(0.51))
	})
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	h := New(seed(), nil)

	t.Run(`missing model degrades check`, func(t *testing.T) {
		require.False(t, h.Available())
		res := h.Handle(ctx, "top 3")
		require.False(t, res.Success)
		require.Equal(t, models.KindUnavailable, res.Kind)
		_, err := h.PredictEmployee(ctx, "E1")
		require.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run(`load from empty dir check`, func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.True(t, errors.Is(err, ErrUnavailable))
	})

	t.Run(`empty collection check`, func(t *testing.T) {
		res := New(memstore.New(), NewModel(riskFeature, nil, []string{"Risk"})).Handle(ctx, "top 3")
		require.Equal(t, models.KindNotFound, res.Kind)
	})
}

func TestPredictEmployee(t *testing.T) {
	ctx := context.Background()
	h := New(seed(), NewModel(riskFeature, nil, []string{"Risk"}))

	t.Run(`levels check`, func(t *testing.T) {
		risk, err := h.PredictEmployee(ctx, "E2")
		require.NoError(t, err)
		require.Equal(t, 90, risk.RiskScore)
		require.Equal(t, "high", risk.RiskLevel)

		risk, err = h.PredictEmployee(ctx, "E4")
		require.NoError(t, err)
		require.Equal(t, "medium", risk.RiskLevel)
	})

	t.Run(`numeric id check`, func(t *testing.T) {
		risk, err := h.PredictEmployee(ctx, "1005")
		require.NoError(t, err)
		require.Equal(t, "low", risk.RiskLevel)
	})

	t.Run(`unknown id check`, func(t *testing.T) {
		_, err := h.PredictEmployee(ctx, "E404")
		require.Error(t, err)
		require.Contains(t, err.Error(), "Employee not found with ID: E404")
	})
}

func TestEncoding(t *testing.T) {
	t.Run(`pretrained and ad hoc encoders check`, func(t *testing.T) {
		var rows []map[string]float64
		capture := classifierFunc(func(row map[string]float64) float64 {
			rows = append(rows, row)
			return 0
		})
		m := NewModel(capture, map[string][]string{"Dept": {"HR", "Sales"}}, []string{"Dept", "Travel", "Age", "Missing"})
		m.Predict([]docstore.Record{
			{{Key: "Dept", Value: "Sales"}, {Key: "Travel", Value: "Rarely"}, {Key: "Age", Value: 30}},
			{{Key: "Dept", Value: "Legal"}, {Key: "Travel", Value: "Often"}, {Key: "Age", Value: 41}},
		})
		require.Len(t, rows, 2)
		require.Equal(t, map[string]float64{"Dept": 1, "Travel": 1, "Age": 30, "Missing": 0}, rows[0])
		require.Equal(t, map[string]float64{"Dept": -1, "Travel": 0, "Age": 41, "Missing": 0}, rows[1])
	})

	t.Run(`load artifacts check`, func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ModelFile), []byte(`{"intercept": 0, "coefficients": {"Age": 0}}`), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, FeaturesFile), []byte(`["Age"]`), 0o600))
		m, err := Load(dir)
		require.NoError(t, err)
		require.Equal(t, []string{"Age"}, m.Features())
		require.InDelta(t, 0.5, m.Predict([]docstore.Record{{{Key: "Age", Value: 30}}})[0], 1e-9)
	})
}
