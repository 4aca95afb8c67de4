package analytics

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/attrition"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	xlsexport "hr-agent-backend/lib/export/xls"
)

type storedRisk struct{}

func (storedRisk) PredictProbability(row map[string]float64) float64 { return row["AttritionRisk"] }

func seed() *memstore.Store {
	store := memstore.New()
	store.Seed(docstore.EmployeeCollection,
		bson.D{{Key: "Name", Value: "Ann"}, {Key: "Department", Value: "IT"}, {Key: "Salary", Value: 50000}},
		bson.D{{Key: "Name", Value: "Bob"}, {Key: "Department", Value: "HR"}, {Key: "Salary", Value: 70000}},
		bson.D{{Key: "Name", Value: "Cid"}, {Key: "Department", Value: "IT"}},
		bson.D{{Key: "Name", Value: "Dee"}},
	)
	store.Seed(docstore.AttritionCollection,
		bson.D{{Key: "EmployeeID", Value: "1"}, {Key: "AttritionRisk", Value: 0.9}},
		bson.D{{Key: "EmployeeID", Value: "2"}, {Key: "AttritionRisk", Value: 0.5}},
		bson.D{{Key: "EmployeeID", Value: "3"}, {Key: "AttritionRisk", Value: 0.1}},
		bson.D{{Key: "EmployeeID", Value: "4"}},
	)
	return store
}

func newAnalytics(store docstore.Provider, f *Forecaster) Provider {
	risk := attrition.New(store, attrition.NewModel(storedRisk{}, nil, []string{"AttritionRisk"}))
	return New(store, f, risk, xlsexport.New())
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	a := newAnalytics(seed(), nil)

	t.Run(`summary check`, func(t *testing.T) {
		require.Equal(t, Summary{TotalEmployees: 4, AvgSalary: 60, HighRiskCount: 1}, a.Summary(ctx))
	})

	t.Run(`departments largest first check`, func(t *testing.T) {
		all, err := a.Departments(ctx, 0)
		require.NoError(t, err)
		require.Equal(t, []DepartmentCount{{"IT", 2}, {"HR", 1}, {"Unknown", 1}}, all)

		top, err := a.Departments(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, []DepartmentCount{{"IT", 2}}, top)
	})

	t.Run(`risk buckets check`, func(t *testing.T) {
		got, err := a.RiskDistribution(ctx)
		require.NoError(t, err)
		require.Equal(t, []RiskCount{{"High", 1}, {"Medium", 1}, {"Low", 2}}, got)
	})

	t.Run(`no forecaster gives empty trend check`, func(t *testing.T) {
		require.Empty(t, a.PerformanceTrend(6))
	})

	t.Run(`attrition workbook check`, func(t *testing.T) {
		buf, err := a.AttritionExport(ctx, 2)
		require.NoError(t, err)
		f, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Attrition Risk")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, "1", rows[1][1])
	})
}

func TestForecaster(t *testing.T) {
	t.Run(`level trend and season check`, func(t *testing.T) {
		f := Forecaster{Level: 3, Trend: 0.1, Seasonal: []float64{0.2, -0.2}}
		require.Equal(t, []float64{3.3, 3, 3.5}, f.Forecast(3))
		require.Len(t, f.Forecast(0), 1)
		require.Len(t, f.Forecast(40), 12)
	})

	t.Run(`load artifact check`, func(t *testing.T) {
		dir := t.TempDir()
		_, err := LoadForecaster(dir)
		require.Error(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, ForecastFile), []byte(`{"level": 4, "trend": 0}`), 0o600))
		f, err := LoadForecaster(dir)
		require.NoError(t, err)
		trend := newAnalytics(memstore.New(), f).PerformanceTrend(2)
		require.Equal(t, []TrendPoint{{1, 4}, {2, 4}}, trend)
	})
}
