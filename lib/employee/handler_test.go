package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	apimodels "hr-agent-backend/models/api"
)

func seeded() *memstore.Store {
	store := memstore.New()
	store.Seed(docstore.EmployeeCollection,
		bson.D{{Key: "Employee_ID", Value: "E001"}, {Key: "Name", Value: "Ann Lee"}, {Key: "Department", Value: "Engineering"}},
		bson.D{{Key: "Employee_ID", Value: "E002"}, {Key: "Name", Value: "Bob Stone"}, {Key: "Department", Value: "Sales"}},
		bson.D{{Key: "Employee_ID", Value: "E003"}, {Key: "Name", Value: "Cara Engel"}, {Key: "Department", Value: "Engineering"}},
	)
	return store
}

func TestList(t *testing.T) {
	ctx := context.Background()
	p := New(seeded())

	t.Run(`search over name id and department check`, func(t *testing.T) {
		list, info, err := p.List(ctx, ListFilter{Search: "eng"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.EqualValues(t, 2, info.Total)
	})

	t.Run(`department filter and paging check`, func(t *testing.T) {
		list, info, err := p.List(ctx, ListFilter{Department: "Engineering", Pagination: apimodels.Pagination{Page: 2, Limit: 1}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "E003", docstore.GetString(list[0], "Employee_ID"))
		require.Equal(t, apimodels.PageInfo{Page: 2, Limit: 1, Total: 2, Pages: 2}, info)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	p := New(seeded())

	for _, ref := range []string{"E002", "e002", "Bob Stone", "bob stone"} {
		t.Run(ref+` check`, func(t *testing.T) {
			rec, err := p.Resolve(ctx, ref)
			require.NoError(t, err)
			require.Equal(t, "E002", docstore.GetString(rec, "Employee_ID"))
		})
	}

	t.Run(`unknown employee check`, func(t *testing.T) {
		_, err := p.Resolve(ctx, "Zed")
		require.Error(t, err)
		require.Contains(t, err.Error(), "Employee not found with ID: Zed")
		require.Contains(t, err.Error(), "Employee_ID: E001")
	})
}
