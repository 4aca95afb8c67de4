package lookup

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"hr-agent-backend/lib/docstore"
)

// Builders for the strategies shared by interviews, candidates and employees.

func fromFindOne(rec docstore.Record, err error) (docstore.Record, bool, error) {
	if err != nil {
		return nil, false, err
	}
	return rec, rec != nil, nil
}

// ExactField matches any of fields by equality, in order.
func ExactField(store docstore.Provider, collection string, fields ...string) Strategy[docstore.Record] {
	return Strategy[docstore.Record]{
		Name: "exact:" + strings.Join(fields, ","),
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			for _, field := range fields {
				rec, found, err := fromFindOne(store.FindOne(ctx, collection, bson.M{field: id}))
				if err != nil || found {
					return rec, found, err
				}
			}
			return nil, false, nil
		},
	}
}

// CaseInsensitiveField matches the whole value ignoring case.
func CaseInsensitiveField(store docstore.Provider, collection string, fields ...string) Strategy[docstore.Record] {
	return Strategy[docstore.Record]{
		Name: "regex:" + strings.Join(fields, ","),
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(id) + "$", Options: "i"}
			return fromFindOne(store.FindOne(ctx, collection, orFilter(fields, pattern)))
		},
	}
}

// ContainsField matches a fragment anywhere in the value ignoring case.
func ContainsField(store docstore.Provider, collection string, fields ...string) Strategy[docstore.Record] {
	return Strategy[docstore.Record]{
		Name: "contains:" + strings.Join(fields, ","),
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(id), Options: "i"}
			return fromFindOne(store.FindOne(ctx, collection, orFilter(fields, pattern)))
		},
	}
}

// FullScan reads the whole collection and compares trimmed upper-cased values.
func FullScan(store docstore.Provider, collection string, fields ...string) Strategy[docstore.Record] {
	return Strategy[docstore.Record]{
		Name: "scan:" + strings.Join(fields, ","),
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			recs, err := store.Find(ctx, collection, bson.M{}, docstore.FindOptions{})
			if err != nil {
				return nil, false, err
			}
			want := strings.ToUpper(strings.TrimSpace(id))
			for _, rec := range recs {
				for _, field := range fields {
					if strings.ToUpper(strings.TrimSpace(docstore.GetString(rec, field))) == want {
						return rec, true, nil
					}
				}
			}
			return nil, false, nil
		},
	}
}

// NativeID matches the store identifier when id is a valid ObjectId.
func NativeID(store docstore.Provider, collection string) Strategy[docstore.Record] {
	return Strategy[docstore.Record]{
		Name: "object_id",
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			if !docstore.IsObjectID(id) {
				return nil, false, nil
			}
			return fromFindOne(store.FindOne(ctx, collection, docstore.IDFilter(id)))
		},
	}
}

// IDPrefix matches the first record whose ObjectId hex starts with id. Short prefixes are ignored.
func IDPrefix(store docstore.Provider, collection string, minLen int) Strategy[docstore.Record] {
	return Strategy[docstore.Record]{
		Name: "object_id_prefix",
		Find: func(ctx context.Context, id string) (docstore.Record, bool, error) {
			prefix := strings.ToLower(id)
			if len(prefix) < minLen || len(prefix) >= 24 || !isHex(prefix) {
				return nil, false, nil
			}
			recs, err := store.Find(ctx, collection, bson.M{}, docstore.FindOptions{Projection: nil})
			if err != nil {
				return nil, false, err
			}
			for _, rec := range recs {
				if strings.HasPrefix(docstore.IDHex(rec), prefix) {
					return rec, true, nil
				}
			}
			return nil, false, nil
		},
	}
}

// Samples lists up to n identifiers of collection for a not-found message.
func Samples(ctx context.Context, store docstore.Provider, collection string, n int64, fields ...string) []string {
	recs, err := store.Find(ctx, collection, bson.M{}, docstore.FindOptions{Limit: n})
	if err != nil {
		return nil
	}
	samples := make([]string, 0, len(recs))
	for _, rec := range recs {
		parts := []string{"ObjectId: " + docstore.IDHex(rec)}
		for _, field := range fields {
			if v := docstore.GetString(rec, field); v != "" {
				parts = append(parts, field+": "+v)
			}
		}
		samples = append(samples, "- "+strings.Join(parts, " | "))
	}
	return samples
}

func orFilter(fields []string, value interface{}) bson.M {
	if len(fields) == 1 {
		return bson.M{fields[0]: value}
	}
	or := bson.A{}
	for _, field := range fields {
		or = append(or, bson.M{field: value})
	}
	return bson.M{"$or": or}
}

var hexOnly = regexp.MustCompile(`^[0-9a-f]+$`)

func isHex(s string) bool {
	return hexOnly.MatchString(s)
}
