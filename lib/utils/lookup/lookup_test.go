package lookup

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
)

func interviewStrategies(store docstore.Provider) []Strategy[docstore.Record] {
	coll := docstore.InterviewsCollection
	return []Strategy[docstore.Record]{
		ExactField(store, coll, "InterviewID", "interviewID", "interview_id"),
		CaseInsensitiveField(store, coll, "InterviewID", "interviewID", "interview_id"),
		FullScan(store, coll, "InterviewID", "interviewID", "interview_id"),
		NativeID(store, coll),
		IDPrefix(store, coll, 8),
		ContainsField(store, coll, "Subject", "CandidateEmail"),
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := store.Seed(docstore.InterviewsCollection,
		bson.D{{Key: "InterviewID", Value: "INT-001"}, {Key: "Subject", Value: "Phone Screen - Ann"}},
		bson.D{{Key: "interview_id", Value: " int-002 "}, {Key: "CandidateEmail", Value: "bob@corp.com"}},
	)
	strategies := interviewStrategies(store)

	cases := []struct {
		id       string
		strategy string
		subject  string
	}{
		{"INT-001", "exact:InterviewID,interviewID,interview_id", "Phone Screen - Ann"},
		{"int-001", "regex:InterviewID,interviewID,interview_id", "Phone Screen - Ann"},
		{"INT-002", "scan:InterviewID,interviewID,interview_id", ""},
		{ids[0], "object_id", "Phone Screen - Ann"},
		{ids[0][:10], "object_id_prefix", "Phone Screen - Ann"},
		{"phone screen", "contains:Subject,CandidateEmail", "Phone Screen - Ann"},
		{"BOB@corp.com", "contains:Subject,CandidateEmail", ""},
	}
	for _, c := range cases {
		t.Run(c.id+` check`, func(t *testing.T) {
			rec, name, err := Resolve(ctx, c.id, strategies...)
			require.NoError(t, err)
			require.Equal(t, c.strategy, name)
			require.Equal(t, c.subject, docstore.GetString(rec, "Subject"))
		})
	}

	t.Run(`not found check`, func(t *testing.T) {
		_, _, err := Resolve(ctx, "nope", strategies...)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
		nf.Entity = "Interview"
		nf.Samples = Samples(ctx, store, docstore.InterviewsCollection, 3, "InterviewID")
		require.Len(t, nf.Samples, 2)
		require.Contains(t, nf.Error(), "Interview not found with ID: nope")
		require.Contains(t, nf.Error(), "InterviewID: INT-001")
	})

	t.Run(`short prefix ignored check`, func(t *testing.T) {
		_, _, err := Resolve(ctx, ids[0][:6], NativeID(store, docstore.InterviewsCollection), IDPrefix(store, docstore.InterviewsCollection, 8))
		require.Error(t, err)
	})

	t.Run(`failing strategy is skipped check`, func(t *testing.T) {
		broken := Strategy[int]{Name: "broken", Find: func(context.Context, string) (int, bool, error) {
			return 0, false, errors.New("boom")
		}}
		ok := Strategy[int]{Name: "ok", Find: func(context.Context, string) (int, bool, error) {
			return 7, true, nil
		}}
		v, name, err := Resolve(ctx, "x", broken, ok)
		require.NoError(t, err)
		require.Equal(t, 7, v)
		require.Equal(t, "ok", name)
	})
}
