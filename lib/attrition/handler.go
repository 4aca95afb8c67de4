package attrition

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
)

const DefaultTopN = 5

type Band string

const (
	BandCritical Band = "CRITICAL"
	BandHigh     Band = "HIGH"
	BandModerate Band = "MODERATE"
)

// BandOf uses exclusive thresholds: exactly 0.70 is HIGH and exactly 0.50 is MODERATE.
func BandOf(probability float64) Band {
	switch {
	case probability > 0.70:
		return BandCritical
	case probability > 0.50:
		return BandHigh
	default:
		return BandModerate
	}
}

type Entry struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Probability float64 `json:"risk_probability"`
	Band        Band    `json:"risk_band"`
}

type Ranking struct {
	TopN         int     `json:"top_n"`
	Entries      []Entry `json:"entries"`
	Total        int     `json:"total_analyzed"`
	MeanRisk     float64 `json:"average_risk"`
	AboveHalf    int     `json:"high_risk_count"`
	AboveSeventy int     `json:"critical_count"`
}

type EmployeeRisk struct {
	EmployeeID  string  `json:"employee_id"`
	RiskScore   int     `json:"risk_score"`
	RiskLevel   string  `json:"risk_level"`
	Probability float64 `json:"probability"`
}

type Provider interface {
	Available() bool
	Rank(ctx context.Context, topN int) (Ranking, error)
	PredictEmployee(ctx context.Context, employeeID string) (EmployeeRisk, error)
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

var ErrNoData = errors.New("no employee data found in Attrition collection")

// NewHandler sets Instance. model may be nil, then the handler reports unavailability.
func NewHandler(store docstore.Provider, model *Model) {
	Instance = New(store, model)
}

func New(store docstore.Provider, model *Model) Provider {
	return &impl{store: store, model: model}
}

type impl struct {
	store docstore.Provider
	model *Model
}

var (
	attritionIDFields = []string{"EmployeeID", "Employee_ID", "EmployeeNumber", "employee_id"}
	employeeIDFields  = []string{"EmployeeID", "Employee_ID", "EmployeeNumber"}
	employeeNameField = []string{"Name", "EmployeeName", "Employee_Name"}
	firstNumber       = regexp.MustCompile(`\d+`)
)

func (i impl) Available() bool {
	return i.model != nil
}

// ParseTopN reads the first integer of the query, DefaultTopN when there is none.
func ParseTopN(query string) int {
	if m := firstNumber.FindString(query); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return DefaultTopN
}

func (i impl) Rank(ctx context.Context, topN int) (Ranking, error) {
	if i.model == nil {
		return Ranking{}, ErrUnavailable
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	recs, err := i.store.Find(ctx, docstore.AttritionCollection, bson.M{}, docstore.FindOptions{})
	if err != nil {
		return Ranking{}, errors.Wrap(err, "read attrition collection")
	}
	if len(recs) == 0 {
		return Ranking{}, ErrNoData
	}
	names := i.employeeNames(ctx)
	probs := i.model.Predict(recs)

	all := make([]Entry, 0, len(recs))
	var sum float64
	ranking := Ranking{Total: len(recs)}
	for idx, rec := range recs {
		id := docstore.FirstString(rec, attritionIDFields...)
		if id == "" {
			id = fmt.Sprintf("EMP_%d", idx)
		}
		name := names[id]
		if name == "" {
			name = docstore.GetString(rec, "Name")
		}
		if name == "" {
			name = "Employee " + id
		}
		p := probs[idx]
		sum += p
		if p > 0.5 {
			ranking.AboveHalf++
		}
		if p > 0.7 {
			ranking.AboveSeventy++
		}
		all = append(all, Entry{EmployeeID: id, Name: name, Probability: p, Band: BandOf(p)})
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Probability > all[b].Probability
	})
	if topN > len(all) {
		topN = len(all)
	}
	ranking.TopN = topN
	ranking.Entries = all[:topN]
	ranking.MeanRisk = sum / float64(len(recs))
	return ranking, nil
}

// employeeNames maps employee ids to names. A failure only costs the names.
func (i impl) employeeNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	projection := bson.M{"_id": 0}
	for _, f := range append(append([]string{}, employeeIDFields...), employeeNameField...) {
		projection[f] = 1
	}
	recs, err := i.store.Find(ctx, docstore.EmployeeCollection, bson.M{}, docstore.FindOptions{Projection: projection})
	if err != nil {
		log.WithError(err).Warn("could not fetch employee names")
		return names
	}
	for _, rec := range recs {
		id := docstore.FirstString(rec, employeeIDFields...)
		name := docstore.FirstString(rec, employeeNameField...)
		if id != "" && name != "" {
			names[id] = name
		}
	}
	return names
}

func (i impl) PredictEmployee(ctx context.Context, employeeID string) (EmployeeRisk, error) {
	if i.model == nil {
		return EmployeeRisk{}, ErrUnavailable
	}
	strategies := []lookup.Strategy[docstore.Record]{
		lookup.ExactField(i.store, docstore.AttritionCollection, attritionIDFields...),
		numericID(i.store),
		lookup.CaseInsensitiveField(i.store, docstore.AttritionCollection, attritionIDFields...),
	}
	rec, _, err := lookup.Resolve(ctx, employeeID, strategies...)
	if err != nil {
		var nf *lookup.NotFoundError
		if errors.As(err, &nf) {
			nf.Entity = "Employee"
			nf.Samples = lookup.Samples(ctx, i.store, docstore.AttritionCollection, 3, attritionIDFields...)
		}
		return EmployeeRisk{}, err
	}
	p := i.model.Predict([]docstore.Record{rec})[0]
	score := int(p * 100)
	level := "low"
	switch {
	case score > 70:
		level = "high"
	case score > 40:
		level = "medium"
	}
	return EmployeeRisk{EmployeeID: employeeID, RiskScore: score, RiskLevel: level, Probability: p}, nil
}

// numericID matches ids stored as numbers, e.g. EmployeeNumber 1001.
func numericID(store docstore.Provider) lookup.Strategy[docstore.Record] {
	return lookup.Strategy[docstore.Record]{
		Name: "numeric_id",
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
			if err != nil {
				return nil, false, nil
			}
			or := bson.A{}
			for _, f := range attritionIDFields {
				or = append(or, bson.M{f: n})
			}
			rec, err := store.FindOne(ctx, docstore.AttritionCollection, bson.M{"$or": or})
			return rec, rec != nil, err
		},
	}
}

func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	ranking, err := i.Rank(ctx, ParseTopN(query))
	switch {
	case errors.Is(err, ErrUnavailable):
		return models.Fail(models.KindUnavailable, UnavailableMessage)
	case errors.Is(err, ErrNoData):
		return models.Fail(models.KindNotFound, "No employee data found in Attrition collection.")
	case err != nil:
		log.WithError(err).Error("attrition ranking failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	return models.Ok(FormatRanking(ranking), ranking)
}

const UnavailableMessage = "Attrition prediction model is not available. Place attrition_model.json, " +
	"label_encoders.json and feature_columns.json in the model directory and restart the service."

func FormatRanking(r Ranking) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d High-Risk Attrition Employees:\n\n", r.TopN)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%s - %s (ID: %s) - %.1f%%\n", e.Band, e.Name, e.EmployeeID, e.Probability*100)
	}
	b.WriteString("\nAnalysis Summary:\n")
	fmt.Fprintf(&b, "- Total employees analyzed: %d\n", r.Total)
	fmt.Fprintf(&b, "- Average risk score: %.1f%%\n", r.MeanRisk*100)
	fmt.Fprintf(&b, "- High-risk employees (>50%%): %d\n", r.AboveHalf)
	fmt.Fprintf(&b, "- Critical employees (>70%%): %d\n", r.AboveSeventy)
	return b.String()
}
