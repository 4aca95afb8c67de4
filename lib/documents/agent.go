package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"hr-agent-backend/lib/docstore"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
)

type agentRequest struct {
	DocumentType string  `json:"document_type"`
	EmployeeName *string `json:"employee_name"`
	EmployeeID   *string `json:"employee_id"`
}

func str(s *string) string {
	if s == nil || strings.EqualFold(strings.TrimSpace(*s), "null") {
		return ""
	}
	return strings.TrimSpace(*s)
}

// FromEmployee fills a request from an employee record; the details depend on the document type.
func FromEmployee(t Type, emp docstore.Record) Request {
	req := Request{
		Type:          t,
		EmployeeID:    docstore.FirstString(emp, "Employee_ID", "EmployeeID", "employee_id"),
		EmployeeName:  docstore.GetString(emp, "Name"),
		EmployeeEmail: docstore.GetString(emp, "Email"),
		Details:       map[string]interface{}{},
	}
	add := func(key, field string) {
		if v := docstore.GetString(emp, field); v != "" {
			req.Details[key] = v
		}
	}
	add("position", "Position")
	switch t {
	case OfferLetter, SalaryCertificate:
		add("salary", "Salary")
	case EmploymentContract:
		add("salary", "Salary")
		add("department", "Department")
	case ExperienceCertificate:
		add("department", "Department")
		add("joining_date", "DateOfJoining")
	}
	return req
}

func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	var parsed agentRequest
	res, err := llmhandler.AskJSON(ctx, i.llm, prompts.DocumentRequest, map[string]string{"Query": query}, &parsed)
	if err != nil {
		i.getLogger("").WithError(err).Error("document request extraction failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	if !res.Ok() {
		return models.Fail(models.KindParseError, "Failed to parse your request. Please try rephrasing.")
	}
	t := OfferLetter
	if parsed.DocumentType != "" {
		if t, err = ParseType(parsed.DocumentType); err != nil {
			return models.Fail(models.KindInputError,
				"Unknown document type. Supported: offer letter, employment contract, experience certificate, salary certificate.")
		}
	}
	ref := str(parsed.EmployeeID)
	if ref == "" {
		ref = str(parsed.EmployeeName)
	}
	if ref == "" {
		return models.Fail(models.KindInputError, "Employee not found. Please provide valid employee ID or name.")
	}
	emp, err := i.employees.Resolve(ctx, ref)
	if err != nil {
		var nf *lookup.NotFoundError
		if errors.As(err, &nf) {
			return models.Fail(models.KindNotFound, nf.Error())
		}
		i.getLogger(t).WithError(err).Error("employee lookup failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	doc, err := i.Generate(ctx, FromEmployee(t, emp))
	if err != nil {
		i.getLogger(t).WithError(err).Error("document generation failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	return models.Ok(fmt.Sprintf("%s generated successfully!\n\nDocument ID: %s\n\nDocument has been saved and can be sent to the employee.",
		t.Title(), doc.ID), doc)
}
