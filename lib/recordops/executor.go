package recordops

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/fieldmatch"
	"hr-agent-backend/models"
)

const genericFailure = "An error occurred while processing your request. Please try again."

// Executor runs one Command against the document store with reconciled field names.
type Executor struct {
	store      docstore.Provider
	reconciler *fieldmatch.Reconciler
}

func NewExecutor(store docstore.Provider) *Executor {
	return &Executor{
		store:      store,
		reconciler: fieldmatch.NewReconciler(store),
	}
}

func (e *Executor) getLogger(cmd Command) *log.Entry {
	return log.
		WithField("operation", cmd.Operation).
		WithField("collection", cmd.Collection)
}

// Execute validates and runs cmd. userQuery is only used to pick the wording of a single find result.
func (e *Executor) Execute(ctx context.Context, cmd Command, userQuery string) models.AgentResult {
	if cmd.Operation == "" || cmd.Collection == "" {
		return models.Fail(models.KindInputError, "Could not interpret your request. Please try rephrasing.")
	}
	collections, err := e.store.ListCollections(ctx)
	if err != nil {
		e.getLogger(cmd).WithError(err).Error("failed to list collections")
		return models.Fail(models.KindInternalError, genericFailure)
	}
	if !contains(collections, cmd.Collection) {
		return models.Fail(models.KindNotFound, fmt.Sprintf("Collection '%s' not found in database.", cmd.Collection))
	}

	filter := e.reconciler.Reconcile(ctx, cmd.Collection, cmd.Filter)
	projection := e.reconciler.Reconcile(ctx, cmd.Collection, cmd.Projection)
	document := e.reconciler.Reconcile(ctx, cmd.Collection, cmd.Document)

	switch cmd.Operation {
	case OpFind:
		return e.find(ctx, cmd, filter, projection, userQuery)
	case OpInsert:
		return e.insert(ctx, cmd, document)
	case OpUpdate:
		return e.update(ctx, cmd, filter, document)
	case OpDelete:
		return e.delete(ctx, cmd, filter)
	default:
		return models.Fail(models.KindInputError, fmt.Sprintf("Operation '%s' is not supported.", cmd.Operation))
	}
}

func (e *Executor) find(ctx context.Context, cmd Command, filter, projection bson.M, userQuery string) models.AgentResult {
	docs, err := e.store.Find(ctx, cmd.Collection, filter, docstore.FindOptions{Projection: projection})
	if err != nil {
		e.getLogger(cmd).WithError(err).Error("find failed")
		return models.Fail(models.KindInternalError, genericFailure)
	}
	data := map[string]interface{}{"count": len(docs), "filter": docstore.ToJSON(filter)}
	if len(docs) == 1 {
		data["record"] = docstore.ToJSON(docs[0])
	}
	return models.Ok(FormatFind(docs, userQuery), data)
}

func (e *Executor) insert(ctx context.Context, cmd Command, document bson.M) models.AgentResult {
	if len(document) == 0 {
		return models.Fail(models.KindInputError, "Insert operation missing document data.")
	}
	id, err := e.store.InsertOne(ctx, cmd.Collection, document)
	if err != nil {
		e.getLogger(cmd).WithError(err).Error("insert failed")
		return models.Fail(models.KindInternalError, genericFailure)
	}
	return models.Ok(fmt.Sprintf("Successfully inserted new record with ID %s.", id), map[string]interface{}{"id": id})
}

func (e *Executor) update(ctx context.Context, cmd Command, filter, document bson.M) models.AgentResult {
	if len(filter) == 0 {
		return models.Fail(models.KindInputError, "Update requires identifying which record to update.")
	}
	update := e.updateStatement(ctx, cmd, document)
	if len(update) == 0 {
		return models.Fail(models.KindInputError, "Update operation missing the fields to change.")
	}
	res, err := e.store.UpdateOne(ctx, cmd.Collection, filter, update)
	if err != nil {
		e.getLogger(cmd).WithError(err).Error("update failed")
		return models.Fail(models.KindInternalError, genericFailure)
	}
	data := map[string]interface{}{"matched": res.Matched, "modified": res.Modified}
	switch {
	case res.Matched == 0:
		return models.Fail(models.KindNotFound, "No matching record found to update.").WithData(data)
	case res.Modified == 0:
		return models.Ok("Matching record found, values were already up to date.", data)
	default:
		return models.Ok(fmt.Sprintf("Successfully updated %d record(s).", res.Modified), data)
	}
}

// updateStatement reconciles field names inside $set and $inc separately. A bare field map is
// wrapped in $set; with no update at all the document is used.
func (e *Executor) updateStatement(ctx context.Context, cmd Command, document bson.M) bson.M {
	update := cmd.Update
	if len(update) == 0 {
		if len(document) == 0 {
			return nil
		}
		return bson.M{"$set": document}
	}
	if !hasOperator(update) {
		return bson.M{"$set": e.reconciler.Reconcile(ctx, cmd.Collection, update)}
	}
	out := bson.M{}
	for op, value := range update {
		fields, ok := value.(bson.M)
		if ok && (op == "$set" || op == "$inc") {
			out[op] = e.reconciler.Reconcile(ctx, cmd.Collection, fields)
			continue
		}
		out[op] = value
	}
	return out
}

func (e *Executor) delete(ctx context.Context, cmd Command, filter bson.M) models.AgentResult {
	if len(filter) == 0 {
		return models.Fail(models.KindInputError, "Delete requires identifying which record to remove.")
	}
	deleted, err := e.store.DeleteOne(ctx, cmd.Collection, filter)
	if err != nil {
		e.getLogger(cmd).WithError(err).Error("delete failed")
		return models.Fail(models.KindInternalError, genericFailure)
	}
	if deleted == 0 {
		return models.Fail(models.KindNotFound, "No matching record found.")
	}
	return models.Ok("Successfully deleted 1 record.", map[string]interface{}{"deleted": deleted})
}

func hasOperator(m bson.M) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
