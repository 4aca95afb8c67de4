package onboarding

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hr-agent-backend/lib/docstore"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/models"
)

type agentRequest struct {
	EmployeeID   *string `json:"employee_id"`
	EmployeeName *string `json:"employee_name"`
	Action       string  `json:"action"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return ""
	}
	return v
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Handle creates a plan for the employee named in the query, or reports the latest plan's progress.
func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	var parsed agentRequest
	res, err := llmhandler.AskJSON(ctx, i.llm, prompts.OnboardingRequest, map[string]string{"Query": query}, &parsed)
	if err != nil {
		i.getLogger("").WithError(err).Error("onboarding request extraction failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	if !res.Ok() {
		return models.Fail(models.KindParseError, "Failed to parse your request. Please try rephrasing.")
	}
	ref := str(parsed.EmployeeID)
	if ref == "" {
		ref = str(parsed.EmployeeName)
	}
	if ref == "" {
		return models.Fail(models.KindInputError, "Employee not found.")
	}
	emp, err := i.employees.Resolve(ctx, ref)
	if err != nil || emp == nil {
		return models.Fail(models.KindNotFound, "Employee not found.")
	}
	employeeID := docstore.FirstString(emp, "Employee_ID", "EmployeeID", "employee_id")
	name := docstore.GetString(emp, "Name")

	if strings.EqualFold(strings.TrimSpace(parsed.Action), "create") {
		created, err := i.Create(ctx, CreateRequest{
			EmployeeID: employeeID,
			Name:       name,
			Email:      docstore.GetString(emp, "Email"),
			Department: docstore.GetString(emp, "Department"),
			Position:   docstore.GetString(emp, "Position"),
			StartDate:  docstore.GetString(emp, "DateOfJoining"),
		})
		if err != nil {
			i.getLogger("").WithError(err).Error("onboarding plan not created")
			return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
		}
		welcome := "Welcome email has been sent."
		if !created.Welcome.AllSent() {
			welcome = created.Welcome.Summary()
		}
		answer := fmt.Sprintf("Onboarding plan created for %s!\n\nPlan includes %d tasks. %s",
			name, len(created.Plan.Tasks), welcome)
		return models.Ok(answer, created)
	}

	p, err := i.plans.Latest(ctx, employeeID)
	if err != nil {
		i.getLogger("").WithError(err).Error("onboarding status lookup failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	if p == nil {
		return models.Fail(models.KindNotFound, fmt.Sprintf("No onboarding plan found for %s. Create one first.", name))
	}
	answer := fmt.Sprintf("Onboarding Status for %s:\n\nCompletion: %s%%\nStatus: %s\nTasks: %d/%d completed",
		name, formatPercent(p.CompletionPercentage), p.Status, p.CompletedTasks(), len(p.Tasks))
	return models.Ok(answer, p)
}
