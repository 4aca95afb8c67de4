package memstore

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"hr-agent-backend/lib/docstore"
)

func matches(doc bson.D, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$or":
			if !anyMatch(doc, cond) {
				return false
			}
			continue
		case "$and":
			for _, sub := range asList(cond) {
				subM, _ := sub.(bson.M)
				if !matches(doc, subM) {
					return false
				}
			}
			continue
		}
		value, exists := lookup(doc, key)
		if re, ok := cond.(primitive.Regex); ok {
			if !matchRegex(value, re, nil) {
				return false
			}
			continue
		}
		if ops, ok := cond.(bson.M); ok && hasOperators(ops) {
			if !matchOperators(value, exists, ops) {
				return false
			}
			continue
		}
		if !equalOrContains(value, exists, cond) {
			return false
		}
	}
	return true
}

func anyMatch(doc bson.D, cond interface{}) bool {
	for _, sub := range asList(cond) {
		subM, _ := sub.(bson.M)
		if matches(doc, subM) {
			return true
		}
	}
	return false
}

func hasOperators(m bson.M) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func matchOperators(value interface{}, exists bool, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$eq":
			if !equalOrContains(value, exists, arg) {
				return false
			}
		case "$ne":
			if equalOrContains(value, exists, arg) {
				return false
			}
		case "$gt", "$gte", "$lt", "$lte":
			if !exists {
				return false
			}
			cmp, ok := compare(value, arg)
			if !ok {
				return false
			}
			switch op {
			case "$gt":
				if cmp <= 0 {
					return false
				}
			case "$gte":
				if cmp < 0 {
					return false
				}
			case "$lt":
				if cmp >= 0 {
					return false
				}
			case "$lte":
				if cmp > 0 {
					return false
				}
			}
		case "$in":
			found := false
			for _, item := range asList(arg) {
				if equalOrContains(value, exists, item) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$nin":
			for _, item := range asList(arg) {
				if equalOrContains(value, exists, item) {
					return false
				}
			}
		case "$exists":
			want, _ := arg.(bool)
			if want != exists {
				return false
			}
		case "$regex":
			if !matchRegex(value, arg, ops["$options"]) {
				return false
			}
		case "$options":
		default:
			return false
		}
	}
	return true
}

func matchRegex(value, pattern, options interface{}) bool {
	var expr, flags string
	switch p := pattern.(type) {
	case string:
		expr = p
	case primitive.Regex:
		expr, flags = p.Pattern, p.Options
	default:
		return false
	}
	if o, ok := options.(string); ok {
		flags += o
	}
	if strings.Contains(flags, "i") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	if list, ok := value.(bson.A); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && re.MatchString(s) {
				return true
			}
		}
		return false
	}
	s, ok := value.(string)
	return ok && re.MatchString(s)
}

func equalOrContains(value interface{}, exists bool, want interface{}) bool {
	if want == nil {
		return !exists || value == nil
	}
	if !exists {
		return false
	}
	if equal(value, want) {
		return true
	}
	if list, ok := value.(bson.A); ok {
		for _, item := range list {
			if equal(item, want) {
				return true
			}
		}
	}
	return false
}

func equal(a, b interface{}) bool {
	fa, okA := number(a)
	fb, okB := number(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v interface{}) (float64, bool) {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return docstore.Float(v)
	}
	return 0, false
}

func compare(a, b interface{}) (int, bool) {
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			}
			return 0, true
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
	}
	ta, okA := asTime(a)
	tb, okB := asTime(b)
	if okA && okB {
		return ta.Compare(tb), true
	}
	if oa, ok := a.(primitive.ObjectID); ok {
		if ob, ok := b.(primitive.ObjectID); ok {
			return strings.Compare(oa.Hex(), ob.Hex()), true
		}
	}
	return 0, false
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func asList(v interface{}) []interface{} {
	switch list := v.(type) {
	case bson.A:
		return list
	case []interface{}:
		return list
	}
	return nil
}

// lookup resolves a dotted path through embedded documents.
func lookup(doc bson.D, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = doc
	for _, part := range parts {
		switch node := current.(type) {
		case bson.D:
			v, ok := docstore.Get(node, part)
			if !ok {
				return nil, false
			}
			current = v
		case bson.M:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}

func applyUpdate(doc bson.D, update bson.M) (bson.D, error) {
	next, err := clone(doc)
	if err != nil {
		return nil, err
	}
	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			return nil, errors.Errorf("%s expects a document", op)
		}
		switch op {
		case "$set":
			for key, value := range fields {
				next = setField(next, key, toDocValue(value))
			}
		case "$inc":
			for key, value := range fields {
				delta, ok := number(value)
				if !ok {
					return nil, errors.Errorf("$inc of %s requires a number", key)
				}
				current, exists := docstore.Get(next, key)
				base := 0.0
				if exists {
					if base, ok = number(current); !ok {
						return nil, errors.Errorf("$inc of non-numeric field %s", key)
					}
				}
				next = setField(next, key, incResult(current, base+delta, value))
			}
		case "$unset":
			for key := range fields {
				next = withoutKey(next, key)
			}
		default:
			return nil, errors.Errorf("update operator %s is not supported", op)
		}
	}
	return next, nil
}

// incResult keeps integer fields integral after an increment.
func incResult(current interface{}, sum float64, delta interface{}) interface{} {
	_, curFloat := current.(float64)
	_, deltaFloat := delta.(float64)
	if curFloat || deltaFloat {
		return sum
	}
	return int64(sum)
}

func setField(doc bson.D, key string, value interface{}) bson.D {
	for idx, e := range doc {
		if e.Key == key {
			doc[idx].Value = value
			return doc
		}
	}
	return append(doc, bson.E{Key: key, Value: value})
}

// toDocValue stores embedded maps in the same ordered form inserted documents use.
func toDocValue(v interface{}) interface{} {
	switch val := v.(type) {
	case bson.M:
		d := bson.D{}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: toDocValue(val[k])})
		}
		return d
	case bson.A:
		out := make(bson.A, 0, len(val))
		for _, item := range val {
			out = append(out, toDocValue(item))
		}
		return out
	}
	return v
}
