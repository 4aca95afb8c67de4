package analytics

import (
	"bytes"
	"context"
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/attrition"
	"hr-agent-backend/lib/docstore"
	xlsexport "hr-agent-backend/lib/export/xls"
	initchecker "hr-agent-backend/lib/utils/init-checker"
)

type Summary struct {
	TotalEmployees int64 `json:"totalEmployees"`
	// AvgSalary is in thousands, rounded.
	AvgSalary     int64 `json:"avgSalary"`
	HighRiskCount int64 `json:"highRiskCount"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type RiskCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TrendPoint struct {
	Period   int     `json:"period"`
	Forecast float64 `json:"forecast"`
}

type Provider interface {
	Summary(ctx context.Context) Summary
	// Departments lists employee counts by department, largest first. limit <= 0 means all.
	Departments(ctx context.Context, limit int64) ([]DepartmentCount, error)
	RiskDistribution(ctx context.Context) ([]RiskCount, error)
	// PerformanceTrend is empty when no forecast artifact was loaded.
	PerformanceTrend(periods int) []TrendPoint
	AttritionExport(ctx context.Context, topN int) (*bytes.Buffer, error)
}

var Instance Provider

// NewHandler sets Instance. forecaster may be nil.
func NewHandler(store docstore.Provider, forecaster *Forecaster) {
	instance := impl{
		store:      store,
		forecaster: forecaster,
		attrition:  attrition.Instance,
		export:     xlsexport.Instance,
	}
	initchecker.CheckInit(
		"attrition", instance.attrition,
		"xlsexport", instance.export,
	)
	Instance = instance
}

func New(store docstore.Provider, forecaster *Forecaster, risk attrition.Provider, export xlsexport.Provider) Provider {
	return impl{store: store, forecaster: forecaster, attrition: risk, export: export}
}

type impl struct {
	store      docstore.Provider
	forecaster *Forecaster
	attrition  attrition.Provider
	export     xlsexport.Provider
}

// Summary reports zero for any figure that cannot be read.
func (i impl) Summary(ctx context.Context) Summary {
	logger := log.WithField("agent", "analytics")
	var s Summary
	var err error
	if s.TotalEmployees, err = i.store.CountDocuments(ctx, docstore.EmployeeCollection, bson.M{}); err != nil {
		logger.WithError(err).Warn("employee count failed")
	}
	recs, err := i.store.Aggregate(ctx, docstore.EmployeeCollection, []bson.M{
		{"$match": bson.M{"Salary": bson.M{"$exists": true, "$ne": nil}}},
		{"$group": bson.M{"_id": nil, "avg_salary": bson.M{"$avg": "$Salary"}}},
	})
	if err != nil {
		logger.WithError(err).Warn("average salary failed")
	} else if len(recs) > 0 {
		if v, ok := docstore.Get(recs[0], "avg_salary"); ok {
			if avg, ok := docstore.Float(v); ok {
				s.AvgSalary = int64(math.RoundToEven(avg / 1000))
			}
		}
	}
	if s.HighRiskCount, err = i.store.CountDocuments(ctx, docstore.AttritionCollection, bson.M{"AttritionRisk": bson.M{"$gt": 0.7}}); err != nil {
		logger.WithError(err).Warn("high risk count failed")
	}
	return s
}

func (i impl) Departments(ctx context.Context, limit int64) ([]DepartmentCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$Department", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": limit})
	}
	recs, err := i.store.Aggregate(ctx, docstore.EmployeeCollection, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "department distribution")
	}
	out := make([]DepartmentCount, 0, len(recs))
	for _, rec := range recs {
		name := docstore.GetString(rec, "_id")
		if name == "" {
			name = "Unknown"
		}
		v, _ := docstore.Get(rec, "count")
		n, _ := docstore.Float(v)
		out = append(out, DepartmentCount{Department: name, Count: int64(n)})
	}
	return out, nil
}

func riskCategory(p float64) string {
	switch {
	case p >= 0.7:
		return "High"
	case p >= 0.4:
		return "Medium"
	}
	return "Low"
}

// RiskDistribution buckets the stored AttritionRisk values. Rows without a value count as Low.
func (i impl) RiskDistribution(ctx context.Context) ([]RiskCount, error) {
	recs, err := i.store.Find(ctx, docstore.AttritionCollection, bson.M{}, docstore.FindOptions{
		Projection: bson.M{"AttritionRisk": 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "read attrition risk")
	}
	counts := map[string]int64{}
	for _, rec := range recs {
		v, _ := docstore.Get(rec, "AttritionRisk")
		p, _ := docstore.Float(v)
		counts[riskCategory(p)]++
	}
	out := []RiskCount{}
	for _, category := range []string{"High", "Medium", "Low"} {
		if counts[category] > 0 {
			out = append(out, RiskCount{Category: category, Count: counts[category]})
		}
	}
	return out, nil
}

func (i impl) PerformanceTrend(periods int) []TrendPoint {
	out := []TrendPoint{}
	if i.forecaster == nil {
		return out
	}
	for idx, v := range i.forecaster.Forecast(periods) {
		out = append(out, TrendPoint{Period: idx + 1, Forecast: v})
	}
	return out
}

func (i impl) AttritionExport(ctx context.Context, topN int) (*bytes.Buffer, error) {
	ranking, err := i.attrition.Rank(ctx, topN)
	if err != nil {
		return nil, err
	}
	return i.export.ExportAttrition(ranking)
}
