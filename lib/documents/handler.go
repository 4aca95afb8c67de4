package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
	"hr-agent-backend/lib/docstore"
	pdfexport "hr-agent-backend/lib/export/pdf"
	filestorage "hr-agent-backend/lib/file-storage"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/models"
	dbmodels "hr-agent-backend/models/db"
)

type Type string

const (
	OfferLetter           Type = "offer_letter"
	EmploymentContract    Type = "employment_contract"
	ExperienceCertificate Type = "experience_certificate"
	SalaryCertificate     Type = "salary_certificate"
)

const (
	StatusGenerated = "generated"
	StatusSent      = "sent"
)

var (
	ErrUnknownType   = errors.New("unknown document type")
	ErrNotFound      = errors.New("Document not found")
	ErrNoRecipient   = errors.New("no recipient email for this document")
	ErrNotDelivered  = errors.New("document email was not delivered")
	ErrEmptyDocument = errors.New("the language model returned an empty document")
)

var prompt = map[Type]string{
	OfferLetter:           prompts.OfferLetter,
	EmploymentContract:    prompts.EmploymentContract,
	ExperienceCertificate: prompts.ExperienceCertificate,
	SalaryCertificate:     prompts.SalaryCertificate,
}

// ParseType accepts the stored names and the short "contract".
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == "contract" {
		t = EmploymentContract
	}
	if _, ok := prompt[t]; !ok {
		return "", errors.Wrap(ErrUnknownType, s)
	}
	return t, nil
}

// Title is "Offer Letter" for offer_letter.
func (t Type) Title() string {
	words := strings.Split(string(t), "_")
	for idx, w := range words {
		if w != "" {
			words[idx] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type Request struct {
	Type          Type                   `json:"type"`
	EmployeeID    string                 `json:"employee_id"`
	EmployeeName  string                 `json:"employee_name"`
	EmployeeEmail string                 `json:"employee_email"`
	JobID         string                 `json:"job_id"`
	Details       map[string]interface{} `json:"details"`
}

// Document is a record of Generated_Documents.
type Document struct {
	ID            string `json:"_id" bson:"-"`
	Type          Type   `json:"type" bson:"type"`
	EmployeeID    string `json:"employee_id" bson:"employee_id"`
	EmployeeName  string `json:"employee_name" bson:"employee_name"`
	EmployeeEmail string `json:"employee_email,omitempty" bson:"employee_email,omitempty"`
	JobID         string `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Content       string `json:"content" bson:"content"`
	GeneratedAt   string `json:"generated_at" bson:"generated_at"`
	Status        string `json:"status" bson:"status"`
	FileKey       string `json:"file_key,omitempty" bson:"file_key,omitempty"`
	SentAt        string `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	SentTo        string `json:"sent_to,omitempty" bson:"sent_to,omitempty"`
}

type Provider interface {
	Generate(ctx context.Context, req Request) (Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, docType, employeeID string, limit int64) ([]Document, error)
	// Send mails the content to recipient, or to the stored employee email when recipient is empty.
	Send(ctx context.Context, id, recipient string) (Document, notify.Report, error)
	PDF(ctx context.Context, id string) (data []byte, fileName string, err error)
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

type Config struct {
	CompanyName    string
	CompanyContact string
	Now            func() time.Time
}

// Employees resolves the person a document is written for.
type Employees interface {
	Resolve(ctx context.Context, ref string) (docstore.Record, error)
}

func NewHandler(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, files filestorage.Provider, employees Employees, cfg Config) {
	Instance = New(store, llm, notifier, files, employees, cfg)
}

// New builds the document service. files may be nil, then PDFs are rendered on request only.
func New(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, files filestorage.Provider, employees Employees, cfg Config) Provider {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &impl{store: store, llm: llm, notifier: notifier, files: files, employees: employees, cfg: cfg}
}

type impl struct {
	store     docstore.Provider
	llm       llmhandler.Provider
	notifier  notify.Provider
	files     filestorage.Provider
	employees Employees
	cfg       Config
}

func (i impl) getLogger(docType Type) *log.Entry {
	return log.WithField("agent", "document_generation").WithField("document_type", docType)
}

// details renders the request as YAML for the prompt.
func details(req Request) string {
	data := map[string]interface{}{}
	for k, v := range req.Details {
		data[k] = v
	}
	set := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	set("name", req.EmployeeName)
	set("employee_id", req.EmployeeID)
	set("email", req.EmployeeEmail)
	set("job_id", req.JobID)
	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(out)
}

func (i impl) Generate(ctx context.Context, req Request) (Document, error) {
	t, err := ParseType(string(req.Type))
	if err != nil {
		return Document{}, err
	}
	logger := i.getLogger(t)
	content, err := llmhandler.Ask(ctx, i.llm, prompt[t], map[string]string{
		"Company": i.cfg.CompanyName,
		"Details": details(req),
	})
	if err != nil {
		return Document{}, errors.Wrap(err, "generate document")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Document{}, ErrEmptyDocument
	}
	doc := Document{
		Type:          t,
		EmployeeID:    req.EmployeeID,
		EmployeeName:  req.EmployeeName,
		EmployeeEmail: req.EmployeeEmail,
		JobID:         req.JobID,
		Content:       content,
		GeneratedAt:   i.cfg.Now().Format("2006-01-02T15:04:05"),
		Status:        StatusGenerated,
	}
	doc.FileKey = i.storePDF(ctx, doc, logger)
	id, err := i.store.InsertOne(ctx, docstore.GeneratedDocsCollection, doc)
	if err != nil {
		return Document{}, errors.Wrap(err, "save document")
	}
	doc.ID = id
	logger.WithField("document_id", id).Info("document generated")
	return doc, nil
}

func (i impl) letter(doc Document) models.LetterData {
	return models.LetterData{
		CompanyName:    i.cfg.CompanyName,
		CompanyContact: i.cfg.CompanyContact,
		Title:          doc.Type.Title(),
		RecipientName:  doc.EmployeeName,
		IssuedAt:       strings.SplitN(doc.GeneratedAt, "T", 2)[0],
		Body:           doc.Content,
	}
}

func fileName(doc Document) string {
	name := strings.ReplaceAll(strings.TrimSpace(doc.EmployeeName), " ", "_")
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("%s_%s.pdf", doc.Type, name)
}

// storePDF uploads the rendered letter. Failures only cost the stored copy.
func (i impl) storePDF(ctx context.Context, doc Document, logger *log.Entry) string {
	if i.files == nil {
		return ""
	}
	data, err := pdfexport.GenerateLetter(i.letter(doc))
	if err != nil {
		logger.WithError(err).Warn("document pdf not rendered")
		return ""
	}
	key, err := i.files.Upload(ctx, dbmodels.UploadFileInfo{
		OwnerRef:    doc.EmployeeID,
		FileName:    fileName(doc),
		FileType:    dbmodels.GeneratedDocument,
		ContentType: "application/pdf",
	}, data)
	if err != nil {
		logger.WithError(err).Warn("document pdf not stored")
		return ""
	}
	return key
}

func decode(rec docstore.Record) (*Document, error) {
	doc := &Document{}
	if err := docstore.Decode(rec, doc); err != nil {
		return nil, err
	}
	doc.ID = docstore.IDHex(rec)
	return doc, nil
}

func (i impl) Get(ctx context.Context, id string) (*Document, error) {
	if !docstore.IsObjectID(id) {
		return nil, ErrNotFound
	}
	rec, err := i.store.FindOne(ctx, docstore.GeneratedDocsCollection, docstore.IDFilter(id))
	if err != nil {
		return nil, errors.Wrap(err, "read document")
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return decode(rec)
}

func (i impl) List(ctx context.Context, docType, employeeID string, limit int64) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	filter := bson.M{}
	if docType != "" {
		t, err := ParseType(docType)
		if err != nil {
			return nil, err
		}
		filter["type"] = string(t)
	}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	recs, err := i.store.Find(ctx, docstore.GeneratedDocsCollection, filter, docstore.FindOptions{
		Sort:  bson.D{{Key: "generated_at", Value: -1}},
		Limit: limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	out := make([]Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (i impl) Send(ctx context.Context, id, recipient string) (Document, notify.Report, error) {
	doc, err := i.Get(ctx, id)
	if err != nil {
		return Document{}, notify.Report{}, err
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		recipient = doc.EmployeeEmail
	}
	if recipient == "" {
		return *doc, notify.Report{}, ErrNoRecipient
	}
	name := doc.EmployeeName
	if name == "" {
		name = "Recipient"
	}
	body := fmt.Sprintf("Dear %s,\n\nPlease find your %s below.\n\n%s\n\nBest regards,\n%s HR Team",
		name, strings.ToLower(doc.Type.Title()), doc.Content, i.cfg.CompanyName)
	report := i.notifier.Send(ctx, notify.Message{
		Workflow:   "documents",
		Step:       "send",
		Subject:    fmt.Sprintf("%s - %s", doc.Type.Title(), name),
		Body:       body,
		Recipients: []string{recipient},
	})
	if !report.AllSent() {
		return *doc, report, errors.Wrap(ErrNotDelivered, string(report.FirstError()))
	}
	now := i.cfg.Now().Format("2006-01-02T15:04:05")
	_, err = i.store.UpdateOne(ctx, docstore.GeneratedDocsCollection, docstore.IDFilter(doc.ID), bson.M{"$set": bson.M{
		"status":  StatusSent,
		"sent_at": now,
		"sent_to": recipient,
	}})
	if err != nil {
		return *doc, report, errors.Wrap(err, "mark document sent")
	}
	doc.Status, doc.SentAt, doc.SentTo = StatusSent, now, recipient
	return *doc, report, nil
}

func (i impl) PDF(ctx context.Context, id string) ([]byte, string, error) {
	doc, err := i.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if doc.FileKey != "" && i.files != nil {
		data, err := i.files.GetFile(ctx, doc.FileKey)
		if err == nil {
			return data, fileName(*doc), nil
		}
		i.getLogger(doc.Type).WithError(err).Warn("stored pdf unavailable, rendering again")
	}
	data, err := pdfexport.GenerateLetter(i.letter(*doc))
	if err != nil {
		return nil, "", errors.Wrap(err, "render document pdf")
	}
	return data, fileName(*doc), nil
}
