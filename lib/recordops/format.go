package recordops

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
)

const largeValueLen = 50

// FormatFind turns a find result into one sentence. Several records are reported as a count only.
func FormatFind(docs []docstore.Record, userQuery string) string {
	switch len(docs) {
	case 0:
		return "No matching records found."
	case 1:
	default:
		return fmt.Sprintf("Found %d records in the database.", len(docs))
	}

	doc := docs[0]
	empID := "N/A"
	if key, ok := firstKey(doc, "employee", "id"); ok {
		if v := docstore.GetString(doc, key); v != "" {
			empID = v
		}
	}

	if key, ok := firstKey(doc, "leave", "balance"); ok {
		return fmt.Sprintf("The leave balance of employee %s is %s.", empID, docstore.GetString(doc, key))
	}

	query := strings.ToLower(userQuery)
	templates := []struct {
		keyword string
		field   string
		format  string
	}{
		{"salary", "Salary", "Employee %s's salary is %s."},
		{"department", "Department", "Employee %s works in the %s department."},
		{"position", "Position", "Employee %s's position is %s."},
		{"name", "Name", "Employee %s's name is %s."},
	}
	for _, tpl := range templates {
		if !strings.Contains(query, tpl.keyword) {
			continue
		}
		if v, ok := docstore.Get(doc, tpl.field); ok {
			return fmt.Sprintf(tpl.format, empID, docstore.String(v))
		}
	}

	name, hasName := docstore.Get(doc, "Name")
	dept, hasDept := docstore.Get(doc, "Department")
	if hasName && hasDept {
		position := "Unknown"
		if v, ok := docstore.Get(doc, "Position"); ok {
			position = docstore.String(v)
		}
		return fmt.Sprintf("Employee %s: %s, %s in %s department.", empID, docstore.String(name), position, docstore.String(dept))
	}

	summary := make([]string, 0, 3)
	for _, e := range doc {
		if e.Key == "_id" || isLarge(e.Value) {
			continue
		}
		summary = append(summary, fmt.Sprintf("%s: %s", e.Key, docstore.String(e.Value)))
		if len(summary) == 3 {
			break
		}
	}
	if len(summary) == 0 {
		return "Record found."
	}
	return "Information: " + strings.Join(summary, ", ")
}

// firstKey returns the first field whose lower-cased name contains every part.
func firstKey(doc docstore.Record, parts ...string) (string, bool) {
	for _, e := range doc {
		lower := strings.ToLower(e.Key)
		all := true
		for _, part := range parts {
			if !strings.Contains(lower, part) {
				all = false
				break
			}
		}
		if all {
			return e.Key, true
		}
	}
	return "", false
}

func isLarge(v interface{}) bool {
	switch v.(type) {
	case bson.A, bson.D, bson.M, []interface{}, map[string]interface{}:
		return len(fmt.Sprint(docstore.ToJSON(v))) > largeValueLen
	}
	return false
}
