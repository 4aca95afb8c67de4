package jsonextract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Result is either a parsed object (Ok) or the reason the answer could not be read.
type Result struct {
	Value  map[string]interface{}
	Stage  string
	Reason string
}

func (r Result) Ok() bool {
	return r.Reason == ""
}

func (r Result) Err() error {
	if r.Ok() {
		return nil
	}
	return errors.New(r.Reason)
}

var (
	fenceOpen      = regexp.MustCompile("```(?:json|JSON)?\\s*")
	trailingCommas = regexp.MustCompile(`,\s*([}\]])`)
)

// Parse reads the first JSON object out of a model answer. Attempts, in order: the raw text,
// the text without code fences, the outermost brace span, the span with quotes and trailing
// commas normalized.
func Parse(answer string) Result {
	text := stripReasoning(answer)
	var lastErr error

	attempts := []struct {
		stage string
		text  func(string) (string, bool)
	}{
		{"direct", func(s string) (string, bool) { return strings.TrimSpace(s), true }},
		{"fence_stripped", func(s string) (string, bool) { return stripFences(s), true }},
		{"brace_span", func(s string) (string, bool) { return braceSpan(stripFences(s)) }},
		{"normalized", func(s string) (string, bool) {
			span, ok := braceSpan(stripFences(s))
			if !ok {
				return "", false
			}
			span = strings.ReplaceAll(span, "'", `"`)
			return trailingCommas.ReplaceAllString(span, "$1"), true
		}},
	}
	for _, attempt := range attempts {
		candidate, ok := attempt.text(text)
		if !ok || candidate == "" {
			continue
		}
		value := map[string]interface{}{}
		if err := json.Unmarshal([]byte(candidate), &value); err != nil {
			lastErr = err
			continue
		}
		return Result{Value: value, Stage: attempt.stage}
	}
	if lastErr == nil {
		return Result{Reason: "answer contains no JSON object"}
	}
	return Result{Reason: errors.Wrap(lastErr, "answer is not valid JSON").Error()}
}

// Decode parses the answer and copies the object into out.
func Decode(answer string, out interface{}) Result {
	res := Parse(answer)
	if !res.Ok() {
		return res
	}
	data, err := json.Marshal(res.Value)
	if err == nil {
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return Result{Stage: res.Stage, Reason: errors.Wrap(err, "unexpected JSON shape").Error()}
	}
	return res
}

// stripReasoning drops a <think>...</think> preamble some models emit.
func stripReasoning(answer string) string {
	if idx := strings.LastIndex(answer, "</think>"); idx >= 0 {
		return answer[idx+len("</think>"):]
	}
	return answer
}

func stripFences(s string) string {
	s = fenceOpen.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// StripFences removes markdown fences from plain text answers.
func StripFences(answer string) string {
	return stripFences(stripReasoning(answer))
}
