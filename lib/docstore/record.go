package docstore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Get(rec Record, key string) (interface{}, bool) {
	for _, e := range rec {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func GetString(rec Record, key string) string {
	v, _ := Get(rec, key)
	return String(v)
}

// FirstString returns the first non-empty value among keys.
func FirstString(rec Record, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(GetString(rec, key)); s != "" {
			return s
		}
	}
	return ""
}

func Keys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for _, e := range rec {
		keys = append(keys, e.Key)
	}
	return keys
}

func ToMap(rec Record) bson.M {
	m := make(bson.M, len(rec))
	for _, e := range rec {
		m[e.Key] = e.Value
	}
	return m
}

func IDHex(rec Record) string {
	v, _ := Get(rec, "_id")
	return String(v)
}

// String renders a stored scalar the way a person would read it.
func String(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case primitive.ObjectID:
		return val.Hex()
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return String(float64(val))
	case int, int32, int64:
		return fmt.Sprintf("%d", val)
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func Float(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}

// IDFilter matches the native identifier, as an ObjectId when the value is one.
func IDFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}

func IsObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	return err == nil
}

// Decode converts a record into a typed struct through its bson encoding.
func Decode(rec Record, out interface{}) error {
	data, err := bson.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "record encode")
	}
	if err = bson.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "record decode")
	}
	return nil
}

// ToJSON converts bson values into plain values fit for a JSON response.
func ToJSON(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = ToJSON(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = ToJSON(item)
		}
		return m
	case map[string]interface{}:
		return ToJSON(bson.M(val))
	case bson.A:
		list := make([]interface{}, 0, len(val))
		for _, item := range val {
			list = append(list, ToJSON(item))
		}
		return list
	case []interface{}:
		return ToJSON(bson.A(val))
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return val
	}
}

func ToJSONList(recs []Record) []interface{} {
	list := make([]interface{}, 0, len(recs))
	for _, rec := range recs {
		list = append(list, ToJSON(rec))
	}
	return list
}
