package interview

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
)

// ErrConflict means the workflow changed since it was read.
var ErrConflict = errors.New("workflow was modified concurrently, please retry")

// Store persists workflow snapshots with a version check on every save.
type Store interface {
	Create(ctx context.Context, w *Workflow) error
	Get(ctx context.Context, id string) (*Workflow, error)
	ActiveByCandidate(ctx context.Context, email string) (*Workflow, error)
	Save(ctx context.Context, w *Workflow) error
	List(ctx context.Context, status string) ([]Workflow, error)
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

func (s storeImpl) Create(ctx context.Context, w *Workflow) error {
	w.CreatedAt = s.stamp()
	w.UpdatedAt = w.CreatedAt
	w.Version = 1
	id, err := s.store.InsertOne(ctx, docstore.InterviewWorkflowCollection, w)
	if err != nil {
		return errors.Wrap(err, "insert interview workflow")
	}
	w.ID = id
	return nil
}

func decode(rec docstore.Record) (*Workflow, error) {
	if rec == nil {
		return nil, nil
	}
	w := &Workflow{}
	if err := docstore.Decode(rec, w); err != nil {
		return nil, errors.Wrap(err, "decode interview workflow")
	}
	w.ID = docstore.IDHex(rec)
	return w, nil
}

// Get returns nil when there is no workflow with that id.
func (s storeImpl) Get(ctx context.Context, id string) (*Workflow, error) {
	if !docstore.IsObjectID(id) {
		return nil, nil
	}
	rec, err := s.store.FindOne(ctx, docstore.InterviewWorkflowCollection, docstore.IDFilter(id))
	if err != nil {
		return nil, errors.Wrap(err, "read interview workflow")
	}
	return decode(rec)
}

func (s storeImpl) ActiveByCandidate(ctx context.Context, email string) (*Workflow, error) {
	rec, err := s.store.FindOne(ctx, docstore.InterviewWorkflowCollection, bson.M{
		"candidate_email": email,
		"status":          string(StatusActive),
	})
	if err != nil {
		return nil, errors.Wrap(err, "read interview workflow")
	}
	return decode(rec)
}

// Save writes the snapshot only if the stored version still equals w.Version, then bumps it.
func (s storeImpl) Save(ctx context.Context, w *Workflow) error {
	next := *w
	next.Version = w.Version + 1
	next.UpdatedAt = s.stamp()
	filter := docstore.IDFilter(w.ID)
	filter["version"] = w.Version
	res, err := s.store.UpdateOne(ctx, docstore.InterviewWorkflowCollection, filter, bson.M{"$set": next})
	if err != nil {
		return errors.Wrap(err, "save interview workflow")
	}
	if res.Matched == 0 {
		return ErrConflict
	}
	*w = next
	return nil
}

func (s storeImpl) List(ctx context.Context, status string) ([]Workflow, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	recs, err := s.store.Find(ctx, docstore.InterviewWorkflowCollection, filter, docstore.FindOptions{
		Sort: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "list interview workflows")
	}
	out := make([]Workflow, 0, len(recs))
	for _, rec := range recs {
		w, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, nil
}
