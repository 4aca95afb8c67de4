package onboarding

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
)

var ErrConflict = errors.New("onboarding plan was modified concurrently, please retry")

type Store interface {
	Create(ctx context.Context, p *Plan) error
	// Get returns nil when there is no plan with that id.
	Get(ctx context.Context, id string) (*Plan, error)
	// Latest returns the most recent plan of the employee, or nil.
	Latest(ctx context.Context, employeeID string) (*Plan, error)
	Save(ctx context.Context, p *Plan) error
	List(ctx context.Context, employeeID, status string, limit int64) ([]Plan, error)
}

func NewStore(store docstore.Provider, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &storeImpl{store: store, now: now}
}

type storeImpl struct {
	store docstore.Provider
	now   func() time.Time
}

func (s storeImpl) stamp() string {
	return s.now().Format("2006-01-02T15:04:05")
}

func (s storeImpl) Create(ctx context.Context, p *Plan) error {
	p.CreatedAt = s.stamp()
	p.UpdatedAt = p.CreatedAt
	p.Version = 1
	id, err := s.store.InsertOne(ctx, docstore.OnboardingCollection, p)
	if err != nil {
		return errors.Wrap(err, "insert onboarding plan")
	}
	p.ID = id
	return nil
}

func decode(rec docstore.Record) (*Plan, error) {
	if rec == nil {
		return nil, nil
	}
	p := &Plan{}
	if err := docstore.Decode(rec, p); err != nil {
		return nil, errors.Wrap(err, "decode onboarding plan")
	}
	p.ID = docstore.IDHex(rec)
	return p, nil
}

func (s storeImpl) Get(ctx context.Context, id string) (*Plan, error) {
	if !docstore.IsObjectID(id) {
		return nil, nil
	}
	rec, err := s.store.FindOne(ctx, docstore.OnboardingCollection, docstore.IDFilter(id))
	if err != nil {
		return nil, errors.Wrap(err, "read onboarding plan")
	}
	return decode(rec)
}

func (s storeImpl) Latest(ctx context.Context, employeeID string) (*Plan, error) {
	plans, err := s.List(ctx, employeeID, "", 1)
	if err != nil || len(plans) == 0 {
		return nil, err
	}
	return &plans[0], nil
}

// Save is conditional on the version p was read at.
func (s storeImpl) Save(ctx context.Context, p *Plan) error {
	next := *p
	next.Version = p.Version + 1
	next.UpdatedAt = s.stamp()
	filter := docstore.IDFilter(p.ID)
	filter["version"] = p.Version
	res, err := s.store.UpdateOne(ctx, docstore.OnboardingCollection, filter, bson.M{"$set": next})
	if err != nil {
		return errors.Wrap(err, "save onboarding plan")
	}
	if res.Matched == 0 {
		return ErrConflict
	}
	*p = next
	return nil
}

func (s storeImpl) List(ctx context.Context, employeeID, status string, limit int64) ([]Plan, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	filter := bson.M{}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	if status != "" {
		filter["status"] = status
	}
	recs, err := s.store.Find(ctx, docstore.OnboardingCollection, filter, docstore.FindOptions{
		Sort:  bson.D{{Key: "created_at", Value: -1}},
		Limit: limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list onboarding plans")
	}
	out := make([]Plan, 0, len(recs))
	for _, rec := range recs {
		p, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
