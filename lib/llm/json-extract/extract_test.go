package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run(`direct JSON check`, func(t *testing.T) {
		res := Parse(`{"operation": "find", "collection": "employee"}`)
		require.True(t, res.Ok())
		require.Equal(t, "direct", res.Stage)
		require.Equal(t, "find", res.Value["operation"])
	})

	t.Run(`fenced JSON check`, func(t *testing.T) {
		res := Parse("```json\n{\"a\": 1}\n```")
		require.True(t, res.Ok())
		require.Equal(t, "fence_stripped", res.Stage)
		require.Equal(t, float64(1), res.Value["a"])
	})

	t.Run(`JSON inside prose check`, func(t *testing.T) {
		res := Parse(`Sure! Here it is: {"a": {"b": 2}} Let me know.`)
		require.True(t, res.Ok())
		require.Equal(t, "brace_span", res.Stage)
	})

	t.Run(`single quotes and trailing comma check`, func(t *testing.T) {
		res := Parse(`{'a': 'x', 'b': [1, 2,],}`)
		require.True(t, res.Ok())
		require.Equal(t, "normalized", res.Stage)
		require.Equal(t, "x", res.Value["a"])
	})

	t.Run(`reasoning preamble check`, func(t *testing.T) {
		res := Parse(`<think>{"wrong": true}</think>{"right": true}`)
		require.True(t, res.Ok())
		require.Equal(t, true, res.Value["right"])
	})

	t.Run(`garbage check`, func(t *testing.T) {
		res := Parse(`no json here`)
		require.False(t, res.Ok())
		require.Error(t, res.Err())

		res = Parse(`{not: json`)
		require.False(t, res.Ok())
	})
}

func TestDecode(t *testing.T) {
	t.Run(`typed decode check`, func(t *testing.T) {
		var out struct {
			Rating         int    `json:"overall_rating"`
			Recommendation string `json:"recommendation"`
		}
		res := Decode("```{\"overall_rating\": 4, \"recommendation\": \"hire\"}```", &out)
		require.True(t, res.Ok())
		require.Equal(t, 4, out.Rating)
		require.Equal(t, "hire", out.Recommendation)
	})

	t.Run(`shape mismatch check`, func(t *testing.T) {
		var out struct {
			Rating int `json:"overall_rating"`
		}
		res := Decode(`{"overall_rating": "great"}`, &out)
		require.False(t, res.Ok())
	})
}
