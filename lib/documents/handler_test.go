package documents

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/docstore/memstore"
	"hr-agent-backend/lib/employee"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/lib/smtp"
	"hr-agent-backend/models"
)

var now = time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)

// letterLLM answers extraction prompts with extract and everything else with a letter echoing the prompt details.
func letterLLM(extract string) llmhandler.Provider {
	return llmhandler.Func(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Return ONLY JSON") {
			return extract, nil
		}
		return "Dear colleague,\n\n" + prompt, nil
	})
}

func newDocs(store docstore.Provider, llm llmhandler.Provider, rec *notify.Recorder) Provider {
	return New(store, llm, rec, nil, employee.New(store), Config{CompanyName: "TalentFlow", Now: func() time.Time { return now }})
}

func TestParseType(t *testing.T) {
	t.Run(`aliases and titles check`, func(t *testing.T) {
		got, err := ParseType("Contract")
		require.NoError(t, err)
		require.Equal(t, EmploymentContract, got)
		require.Equal(t, "Salary Certificate", SalaryCertificate.Title())
		_, err = ParseType("memo")
		require.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestGenerateAndSend(t *testing.T) {
	ctx := context.Background()

	t.Run(`generate list send check`, func(t *testing.T) {
		store := memstore.New()
		rec := &notify.Recorder{}
		d := newDocs(store, letterLLM(""), rec)
		doc, err := d.Generate(ctx, Request{
			Type:          "offer_letter",
			EmployeeID:    "E001",
			EmployeeName:  "Ann Lee",
			EmployeeEmail: "ann@corp.com",
			Details:       map[string]interface{}{"salary": 120000},
		})
		require.NoError(t, err)
		require.Equal(t, StatusGenerated, doc.Status)
		require.Contains(t, doc.Content, "salary: 120000")
		require.Contains(t, doc.Content, "name: Ann Lee")
		require.Empty(t, doc.FileKey)

		list, err := d.List(ctx, "offer_letter", "", 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, doc.ID, list[0].ID)

		sent, report, err := d.Send(ctx, doc.ID, "")
		require.NoError(t, err)
		require.True(t, report.AllSent())
		require.Equal(t, StatusSent, sent.Status)
		require.Equal(t, "ann@corp.com", sent.SentTo)
		require.Equal(t, "Offer Letter - Ann Lee", rec.Messages[0].Subject)

		stored, err := d.Get(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, StatusSent, stored.Status)
		require.Equal(t, "2026-10-12T09:00:00", stored.SentAt)
	})

	t.Run(`failed delivery keeps generated status check`, func(t *testing.T) {
		store := memstore.New()
		rec := &notify.Recorder{Fail: map[string]smtp.ErrorKind{"ann@corp.com": smtp.ErrorAuthFailed}}
		d := newDocs(store, letterLLM(""), rec)
		doc, err := d.Generate(ctx, Request{Type: SalaryCertificate, EmployeeName: "Ann Lee", EmployeeEmail: "ann@corp.com"})
		require.NoError(t, err)
		_, _, err = d.Send(ctx, doc.ID, "")
		require.ErrorIs(t, err, ErrNotDelivered)
		stored, err := d.Get(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, StatusGenerated, stored.Status)
	})

	t.Run(`pdf rendered on demand check`, func(t *testing.T) {
		d := newDocs(memstore.New(), letterLLM(""), &notify.Recorder{})
		doc, err := d.Generate(ctx, Request{Type: ExperienceCertificate, EmployeeName: "Ann Lee"})
		require.NoError(t, err)
		data, name, err := d.PDF(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, "experience_certificate_Ann_Lee.pdf", name)
		require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

		_, _, err = d.PDF(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	store.Seed(docstore.EmployeeCollection, bson.D{
		{Key: "Employee_ID", Value: "E007"},
		{Key: "Name", Value: "Bob Stone"},
		{Key: "Position", Value: "Analyst"},
		{Key: "Salary", Value: 85000},
	})

	t.Run(`employee resolved by name check`, func(t *testing.T) {
		llm := letterLLM(`{"document_type": "salary_certificate", "employee_name": "bob stone", "employee_id": null}`)
		res := newDocs(store, llm, &notify.Recorder{}).Handle(ctx, "salary certificate for bob stone")
		require.True(t, res.Success)
		require.Contains(t, res.Answer, "Salary Certificate generated successfully!")
		doc := res.Data.(Document)
		require.Equal(t, "E007", doc.EmployeeID)
		require.Contains(t, doc.Content, "salary: \"85000\"")
	})

	t.Run(`unknown employee check`, func(t *testing.T) {
		llm := letterLLM(`{"document_type": "offer_letter", "employee_name": "Nobody"}`)
		res := newDocs(store, llm, &notify.Recorder{}).Handle(ctx, "offer letter for nobody")
		require.Equal(t, models.KindNotFound, res.Kind)
		require.Contains(t, res.Answer, "Employee_ID: E007")
	})
}
