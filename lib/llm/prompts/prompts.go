// Package prompts holds the language model prompt templates. The embedded set can be
// overridden entry by entry from a YAML file.
package prompts

import (
	"bytes"
	_ "embed"
	"os"
	"sync"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DBCommand             = "db_command"
	EmailBody             = "email_body"
	JobID                 = "job_id"
	MeetingRequest        = "meeting_request"
	InterviewRequest      = "interview_request"
	FeedbackAnalysis      = "feedback_analysis"
	OnboardingPlan        = "onboarding_plan"
	DocumentRequest       = "document_request"
	OnboardingRequest     = "onboarding_request"
	GeneralQA             = "general_qa"
	OfferLetter           = "offer_letter"
	EmploymentContract    = "employment_contract"
	ExperienceCertificate = "experience_certificate"
	SalaryCertificate     = "salary_certificate"
)

//go:embed prompts.yaml
var embedded []byte

var (
	mu        sync.RWMutex
	templates = mustParse(embedded)
)

func parse(data []byte) (map[string]*template.Template, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "prompts yaml")
	}
	out := make(map[string]*template.Template, len(raw))
	for name, text := range raw {
		tpl, err := template.New(name).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, errors.Wrapf(err, "prompt %s", name)
		}
		out[name] = tpl
	}
	return out, nil
}

func mustParse(data []byte) map[string]*template.Template {
	out, err := parse(data)
	if err != nil {
		panic(err)
	}
	return out
}

// LoadOverrides replaces the embedded prompts named in the file.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read prompts file")
	}
	overrides, err := parse(data)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	for name, tpl := range overrides {
		templates[name] = tpl
	}
	return nil
}

func Render(name string, data interface{}) (string, error) {
	mu.RLock()
	tpl, ok := templates[name]
	mu.RUnlock()
	if !ok {
		return "", errors.Errorf("prompt %s is not defined", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render prompt %s", name)
	}
	return buf.String(), nil
}
