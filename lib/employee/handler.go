package employee

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/utils/lookup"
	apimodels "hr-agent-backend/models/api"
)

type ListFilter struct {
	Search     string `query:"search"`
	Department string `query:"department"`
	apimodels.Pagination
}

type Provider interface {
	List(ctx context.Context, filter ListFilter) ([]docstore.Record, apimodels.PageInfo, error)
	Get(ctx context.Context, employeeID string) (docstore.Record, error)
	// Resolve accepts an Employee_ID, an ObjectId or a name.
	Resolve(ctx context.Context, ref string) (docstore.Record, error)
}

var Instance Provider

func NewHandler(store docstore.Provider) {
	Instance = New(store)
}

func New(store docstore.Provider) Provider {
	return &impl{store: store}
}

type impl struct {
	store docstore.Provider
}

func (i impl) List(ctx context.Context, filter ListFilter) ([]docstore.Record, apimodels.PageInfo, error) {
	page, limit := filter.GetPage(20)
	query := bson.M{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"Name": re},
			bson.M{"Employee_ID": re},
			bson.M{"Department": re},
		}
	}
	if filter.Department != "" {
		query["Department"] = filter.Department
	}
	total, err := i.store.CountDocuments(ctx, docstore.EmployeeCollection, query)
	if err != nil {
		return nil, apimodels.PageInfo{}, errors.Wrap(err, "count employees")
	}
	list, err := i.store.Find(ctx, docstore.EmployeeCollection, query, docstore.FindOptions{
		Skip:  int64((page - 1) * limit),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, apimodels.PageInfo{}, errors.Wrap(err, "list employees")
	}
	return list, apimodels.NewPageInfo(page, limit, total), nil
}

// Get returns nil when no employee has that Employee_ID.
func (i impl) Get(ctx context.Context, employeeID string) (docstore.Record, error) {
	rec, err := i.store.FindOne(ctx, docstore.EmployeeCollection, bson.M{"Employee_ID": employeeID})
	if err != nil {
		return nil, errors.Wrap(err, "read employee")
	}
	return rec, nil
}

// Strategies is the lookup chain for employee references.
func Strategies(store docstore.Provider) []lookup.Strategy[docstore.Record] {
	coll := docstore.EmployeeCollection
	return []lookup.Strategy[docstore.Record]{
		lookup.ExactField(store, coll, "Employee_ID", "EmployeeID", "employee_id"),
		lookup.CaseInsensitiveField(store, coll, "Employee_ID", "EmployeeID", "employee_id"),
		lookup.NativeID(store, coll),
		lookup.ExactField(store, coll, "Name"),
		lookup.CaseInsensitiveField(store, coll, "Name"),
		lookup.FullScan(store, coll, "Employee_ID", "Name"),
	}
}

func (i impl) Resolve(ctx context.Context, ref string) (docstore.Record, error) {
	rec, _, err := lookup.Resolve(ctx, ref, Strategies(i.store)...)
	if err != nil {
		var nf *lookup.NotFoundError
		if errors.As(err, &nf) {
			nf.Entity = "Employee"
			nf.Samples = lookup.Samples(ctx, i.store, docstore.EmployeeCollection, 3, "Employee_ID", "Name")
		}
		return nil, err
	}
	return rec, nil
}
