package fieldmatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore/memstore"
)

func TestMatch(t *testing.T) {
	sample := []string{"_id", "Employee_ID", "Name", "Department", "Leave Balance"}

	t.Run(`case-insensitive match check`, func(t *testing.T) {
		out := Match(sample, bson.M{"department": "Engineering", "NAME": "Ann"})
		require.Equal(t, bson.M{"Department": "Engineering", "Name": "Ann"}, out)
	})

	t.Run(`separator-insensitive match check`, func(t *testing.T) {
		out := Match(sample, bson.M{"employee id": "E1", "leave_balance": 3})
		require.Equal(t, bson.M{"Employee_ID": "E1", "Leave Balance": 3}, out)
	})

	t.Run(`unknown key passes through check`, func(t *testing.T) {
		out := Match(sample, bson.M{"Salary": 100, "$or": bson.A{}})
		require.Equal(t, bson.M{"Salary": 100, "$or": bson.A{}}, out)
	})

	t.Run(`already correct mapping is identity check`, func(t *testing.T) {
		in := bson.M{"Employee_ID": "E1", "Department": "HR"}
		require.Equal(t, in, Match(sample, in))
	})

	t.Run(`first sample key wins check`, func(t *testing.T) {
		out := Match([]string{"dept_name", "DeptName"}, bson.M{"deptname": 1})
		require.Equal(t, bson.M{"DeptName": 1}, out)

		out = Match([]string{"Dept Name", "dept_name"}, bson.M{"DEPT-NAME": 1, "dept name": 2})
		require.Equal(t, bson.M{"DEPT-NAME": 1, "Dept Name": 2}, out)
	})
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run(`empty collection returns input check`, func(t *testing.T) {
		r := NewReconciler(memstore.New())
		in := bson.M{"department": "HR"}
		require.Equal(t, in, r.Reconcile(ctx, "employee", in))
	})

	t.Run(`uses sample record check`, func(t *testing.T) {
		store := memstore.New()
		store.Seed("employee", bson.D{{Key: "Employee_ID", Value: "E1"}, {Key: "Department", Value: "HR"}})
		r := NewReconciler(store)
		out := r.Reconcile(ctx, "employee", bson.M{"employee_id": "E1"})
		require.Equal(t, bson.M{"Employee_ID": "E1"}, out)
	})

	t.Run(`empty input check`, func(t *testing.T) {
		r := NewReconciler(memstore.New())
		require.Len(t, r.Reconcile(ctx, "employee", bson.M{}), 0)
	})
}
