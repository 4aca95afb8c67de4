package fieldmatch

import (
	"context"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
)

// Reconciler maps caller-supplied field names onto the names stored in a collection,
// using one sample record of that collection as the schema.
type Reconciler struct {
	store docstore.Provider
}

func NewReconciler(store docstore.Provider) *Reconciler {
	return &Reconciler{store: store}
}

var separators = regexp.MustCompile(`[\s_]+`)

func normalize(key string) string {
	return strings.ToLower(separators.ReplaceAllString(key, ""))
}

// Reconcile never fails: on an empty input, a missing sample or a store error the input
// is returned as is.
func (r *Reconciler) Reconcile(ctx context.Context, collection string, fields bson.M) bson.M {
	if len(fields) == 0 {
		return fields
	}
	sample, err := r.store.FindOne(ctx, collection, bson.M{})
	if err != nil {
		log.WithField("collection", collection).WithError(err).Warn("field reconciliation skipped")
		return fields
	}
	if sample == nil {
		return fields
	}
	return Match(docstore.Keys(sample), fields)
}

// Match renames every key of fields to the first sample key that equals it case-insensitively,
// then to the first one that equals it ignoring whitespace and underscores. Unmatched keys and
// operator keys are kept verbatim.
func Match(sampleKeys []string, fields bson.M) bson.M {
	out := make(bson.M, len(fields))
	for key, value := range fields {
		out[resolve(sampleKeys, key)] = value
	}
	return out
}

func resolve(sampleKeys []string, key string) string {
	if strings.HasPrefix(key, "$") {
		return key
	}
	lower := strings.ToLower(key)
	for _, candidate := range sampleKeys {
		if strings.ToLower(candidate) == lower {
			return candidate
		}
	}
	norm := normalize(key)
	for _, candidate := range sampleKeys {
		if normalize(candidate) == norm {
			return candidate
		}
	}
	return key
}
