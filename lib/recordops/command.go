package recordops

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	jsonextract "hr-agent-backend/lib/llm/json-extract"
)

const (
	OpFind   = "find"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Command is one store operation decoded from a model answer. It lives for a single request.
type Command struct {
	Operation  string `json:"operation"`
	Collection string `json:"collection"`
	Filter     bson.M `json:"filter,omitempty"`
	Projection bson.M `json:"projection,omitempty"`
	Document   bson.M `json:"document,omitempty"`
	Update     bson.M `json:"update,omitempty"`
}

// ParseCommand reads a Command out of a model answer. "query" is accepted as an alias of "filter".
func ParseCommand(answer string) (Command, jsonextract.Result) {
	res := jsonextract.Parse(answer)
	if !res.Ok() {
		return Command{}, res
	}
	return CommandFromMap(res.Value), res
}

func CommandFromMap(raw map[string]interface{}) Command {
	cmd := Command{
		Operation:  strings.ToLower(strings.TrimSpace(stringOf(raw["operation"]))),
		Collection: strings.TrimSpace(stringOf(raw["collection"])),
		Filter:     toM(raw["filter"]),
		Projection: toM(raw["projection"]),
		Document:   toM(raw["document"]),
		Update:     toM(raw["update"]),
	}
	if len(cmd.Filter) == 0 {
		cmd.Filter = toM(raw["query"])
	}
	return cmd
}

func stringOf(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toM(v interface{}) bson.M {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(bson.M, len(m))
	for k, item := range m {
		out[k] = toBSON(item)
	}
	return out
}

func toBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return toM(val)
	case []interface{}:
		list := make(bson.A, 0, len(val))
		for _, item := range val {
			list = append(list, toBSON(item))
		}
		return list
	default:
		return val
	}
}
