package job

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/utils/lookup"
	apimodels "hr-agent-backend/models/api"
)

var ErrDuplicateJobID = errors.New("JobID already exists")

type ListFilter struct {
	Department string `query:"department"`
	Position   string `query:"position"`
	Status     string `query:"status"`
	apimodels.Pagination
}

// Job is the shape accepted on creation. Stored field names follow the Jobs collection.
type Job struct {
	JobID              string   `json:"JobID,omitempty" bson:"JobID,omitempty"`
	Position           string   `json:"Position" bson:"Position"`
	Department         string   `json:"Department" bson:"Department"`
	RequiredSkills     []string `json:"RequiredSkills" bson:"RequiredSkills"`
	ExperienceRequired int      `json:"ExperienceRequired" bson:"ExperienceRequired"`
	EducationRequired  string   `json:"EducationRequired" bson:"EducationRequired"`
	Status             string   `json:"Status" bson:"Status"`
}

func (j Job) Validate() error {
	if strings.TrimSpace(j.Position) == "" {
		return errors.New("Position is required")
	}
	if strings.TrimSpace(j.Department) == "" {
		return errors.New("Department is required")
	}
	if j.ExperienceRequired < 0 {
		return errors.New("ExperienceRequired must not be negative")
	}
	return nil
}

type Summary struct {
	JobID      string `json:"job_id"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Status     string `json:"status"`
	ID         string `json:"_id"`
}

type Provider interface {
	List(ctx context.Context, filter ListFilter) ([]docstore.Record, apimodels.PageInfo, error)
	// Get tries JobID, then ObjectId. Returns nil when nothing matches.
	Get(ctx context.Context, id string) (docstore.Record, error)
	IDs(ctx context.Context) ([]Summary, error)
	Create(ctx context.Context, j Job) (docstore.Record, error)
	// SeedBasic inserts sample jobs into an empty collection and returns the resulting count.
	SeedBasic(ctx context.Context) (seeded bool, count int64, err error)
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

func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func (i impl) List(ctx context.Context, filter ListFilter) ([]docstore.Record, apimodels.PageInfo, error) {
	page, limit := filter.GetPage(50)
	query := bson.M{}
	if filter.Department != "" {
		query["Department"] = contains(filter.Department)
	}
	if filter.Position != "" {
		query["Position"] = contains(filter.Position)
	}
	if filter.Status != "" {
		query["Status"] = filter.Status
	}
	total, err := i.store.CountDocuments(ctx, docstore.JobsCollection, query)
	if err != nil {
		return nil, apimodels.PageInfo{}, errors.Wrap(err, "count jobs")
	}
	list, err := i.store.Find(ctx, docstore.JobsCollection, query, docstore.FindOptions{
		Sort:  bson.D{{Key: "JobID", Value: 1}},
		Skip:  int64((page - 1) * limit),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, apimodels.PageInfo{}, errors.Wrap(err, "list jobs")
	}
	return list, apimodels.NewPageInfo(page, limit, total), nil
}

func (i impl) Get(ctx context.Context, id string) (docstore.Record, error) {
	rec, _, err := lookup.Resolve(ctx, id,
		lookup.ExactField(i.store, docstore.JobsCollection, "JobID"),
		lookup.NativeID(i.store, docstore.JobsCollection),
	)
	var nf *lookup.NotFoundError
	if errors.As(err, &nf) {
		return nil, nil
	}
	return rec, err
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (i impl) IDs(ctx context.Context) ([]Summary, error) {
	recs, err := i.store.Find(ctx, docstore.JobsCollection, bson.M{}, docstore.FindOptions{
		Projection: bson.M{"JobID": 1, "Position": 1, "Department": 1, "Status": 1, "_id": 1},
		Sort:       bson.D{{Key: "JobID", Value: 1}},
		Limit:      1000,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list job ids")
	}
	out := make([]Summary, 0, len(recs))
	for _, rec := range recs {
		id := docstore.IDHex(rec)
		jobID := docstore.GetString(rec, "JobID")
		if jobID == "" {
			jobID = id
		}
		out = append(out, Summary{
			JobID:      jobID,
			Position:   orNA(docstore.GetString(rec, "Position")),
			Department: orNA(docstore.GetString(rec, "Department")),
			Status:     orNA(docstore.GetString(rec, "Status")),
			ID:         id,
		})
	}
	return out, nil
}

func (i impl) Create(ctx context.Context, j Job) (docstore.Record, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	if j.Status == "" {
		j.Status = "Open"
	}
	if j.RequiredSkills == nil {
		j.RequiredSkills = []string{}
	}
	if j.JobID != "" {
		existing, err := i.store.FindOne(ctx, docstore.JobsCollection, bson.M{"JobID": j.JobID})
		if err != nil {
			return nil, errors.Wrap(err, "check job id")
		}
		if existing != nil {
			return nil, errors.Wrap(ErrDuplicateJobID, fmt.Sprintf("JobID %s", j.JobID))
		}
	}
	id, err := i.store.InsertOne(ctx, docstore.JobsCollection, j)
	if err != nil {
		return nil, errors.Wrap(err, "insert job")
	}
	return i.store.FindOne(ctx, docstore.JobsCollection, docstore.IDFilter(id))
}

var samples = []Job{
	{
		JobID:              "JOB-AI-001",
		Position:           "AI Engineer",
		Department:         "AI",
		RequiredSkills:     []string{"Python", "Machine Learning", "Deep Learning"},
		ExperienceRequired: 3,
		EducationRequired:  "Bachelors in CS or related",
		Status:             "Open",
	},
	{
		JobID:              "JOB-DA-001",
		Position:           "Data Analyst",
		Department:         "Data Analytics",
		RequiredSkills:     []string{"SQL", "Excel", "PowerBI"},
		ExperienceRequired: 2,
		EducationRequired:  "Bachelors in Statistics or related",
		Status:             "Open",
	},
	{
		JobID:              "JOB-DS-001",
		Position:           "Data Scientist",
		Department:         "Data Science",
		RequiredSkills:     []string{"Python", "Pandas", "ML"},
		ExperienceRequired: 4,
		EducationRequired:  "Masters preferred",
		Status:             "Open",
	},
}

func (i impl) SeedBasic(ctx context.Context) (bool, int64, error) {
	count, err := i.store.CountDocuments(ctx, docstore.JobsCollection, bson.M{})
	if err != nil {
		return false, 0, errors.Wrap(err, "count jobs")
	}
	if count > 0 {
		return false, count, nil
	}
	for _, j := range samples {
		if _, err = i.store.InsertOne(ctx, docstore.JobsCollection, j); err != nil {
			return false, 0, errors.Wrap(err, "seed job")
		}
	}
	log.WithField("count", len(samples)).Info("sample jobs seeded")
	return true, int64(len(samples)), nil
}
