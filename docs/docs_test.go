package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"hr-agent-backend/lib/interview"
)

type operation struct {
	Parameters []struct {
		Name        string `json:"name"`
		In          string `json:"in"`
		Description string `json:"description"`
	} `json:"parameters"`
}

func TestSwagger(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docTemplate), &doc))

	t.Run(`workflow status filter lists workflow statuses check`, func(t *testing.T) {
		op, ok := doc.Paths["/api/v1/interview/workflows"]["get"]
		require.True(t, ok)
		var description string
		for _, p := range op.Parameters {
			if p.Name == "status" && p.In == "query" {
				description = p.Description
			}
		}
		require.Equal(t, string(interview.StatusActive)+", "+string(interview.StatusCompleted)+" or "+string(interview.StatusRejected), description)
	})
}
