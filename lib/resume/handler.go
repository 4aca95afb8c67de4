package resume

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
	filestorage "hr-agent-backend/lib/file-storage"
	llmhandler "hr-agent-backend/lib/llm"
	"hr-agent-backend/lib/llm/prompts"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/lib/utils/lookup"
	"hr-agent-backend/models"
	dbmodels "hr-agent-backend/models/db"
)

var (
	ErrJobNotFound = errors.New("Job not found")
	ErrNoJobs      = errors.New("No jobs available for screening")
)

type ScreenRequest struct {
	ResumeText string `json:"resume_text"`
	JobID      string `json:"job_id"`
	Department string `json:"department"`
}

// Screening is the append-only record stored in Resume_screening.
type Screening struct {
	ID             string         `json:"_id" bson:"-"`
	JobID          string         `json:"job_id" bson:"job_id"`
	CandidateName  string         `json:"candidate_name" bson:"candidate_name"`
	CandidateEmail string         `json:"candidate_email" bson:"candidate_email"`
	CandidateData  Candidate      `json:"candidate_data" bson:"candidate_data"`
	Score          Score          `json:"score" bson:"score"`
	ScreeningDate  string         `json:"screening_date" bson:"screening_date"`
	Status         string         `json:"status" bson:"status"`
	ResumeFileKey  string         `json:"resume_file_key,omitempty" bson:"resume_file_key,omitempty"`
	Notification   *notify.Report `json:"notification,omitempty" bson:"-"`
}

type Provider interface {
	Screen(ctx context.Context, req ScreenRequest) (Screening, error)
	// ScreenFile extracts the text of an uploaded resume, keeps the file in object storage
	// when it is configured, and screens it.
	ScreenFile(ctx context.Context, fileName string, data []byte, req ScreenRequest) (Screening, error)
	Results(ctx context.Context, jobID string, limit int64) ([]docstore.Record, error)
	Handle(ctx context.Context, query string) models.AgentResult
}

var Instance Provider

type Config struct {
	HREmail     string
	CompanyName string
}

func NewHandler(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, files filestorage.Provider, matcher *Matcher, cfg Config) {
	Instance = New(store, llm, notifier, files, matcher, cfg)
}

// New builds the screening service. files may be nil.
func New(store docstore.Provider, llm llmhandler.Provider, notifier notify.Provider, files filestorage.Provider, matcher *Matcher, cfg Config) Provider {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	return &impl{
		store:    store,
		llm:      llm,
		notifier: notifier,
		files:    files,
		matcher:  matcher,
		cfg:      cfg,
		now:      time.Now,
	}
}

type impl struct {
	store    docstore.Provider
	llm      llmhandler.Provider
	notifier notify.Provider
	files    filestorage.Provider
	matcher  *Matcher
	cfg      Config
	now      func() time.Time
}

func (i impl) getLogger(jobID string) *log.Entry {
	return log.WithField("agent", "resume_screening").WithField("job_id", jobID)
}

// resolveJob finds the job by JobID or ObjectId, or picks one by department when no id was given.
func (i impl) resolveJob(ctx context.Context, jobID, department string) (docstore.Record, string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID != "" {
		job, _, err := lookup.Resolve(ctx, jobID,
			lookup.ExactField(i.store, docstore.JobsCollection, "JobID"),
			lookup.NativeID(i.store, docstore.JobsCollection),
		)
		if err != nil {
			return nil, "", ErrJobNotFound
		}
		return job, jobID, nil
	}
	filters := []bson.M{{"Status": "Open"}, {}}
	if dept := strings.TrimSpace(department); dept != "" && !strings.EqualFold(dept, "N/A") {
		filters = []bson.M{{"Department": dept, "Status": "Open"}, {"Department": dept}}
	}
	for _, filter := range filters {
		job, err := i.store.FindOne(ctx, docstore.JobsCollection, filter)
		if err != nil {
			return nil, "", errors.Wrap(err, "find job")
		}
		if job != nil {
			id := docstore.GetString(job, "JobID")
			if id == "" {
				id = docstore.IDHex(job)
			}
			return job, id, nil
		}
	}
	return nil, "", ErrNoJobs
}

// RequirementsOf reads a Jobs record.
func RequirementsOf(job docstore.Record) Requirements {
	req := Requirements{
		Education:  docstore.GetString(job, "EducationRequired"),
		Position:   docstore.GetString(job, "Position"),
		Department: docstore.GetString(job, "Department"),
	}
	if v, ok := docstore.Get(job, "ExperienceRequired"); ok {
		if f, ok := docstore.Float(v); ok {
			req.ExperienceYears = int(f)
		}
	}
	v, _ := docstore.Get(job, "RequiredSkills")
	switch skills := v.(type) {
	case bson.A:
		for _, s := range skills {
			if str := strings.TrimSpace(docstore.String(s)); str != "" {
				req.RequiredSkills = append(req.RequiredSkills, str)
			}
		}
	case []string:
		req.RequiredSkills = append(req.RequiredSkills, skills...)
	case string:
		req.RequiredSkills = splitList(skills)
	}
	return req
}

func (i impl) Screen(ctx context.Context, req ScreenRequest) (Screening, error) {
	job, jobID, err := i.resolveJob(ctx, req.JobID, req.Department)
	if err != nil {
		return Screening{}, err
	}
	return i.screen(ctx, jobID, job, req.ResumeText, "")
}

func (i impl) screen(ctx context.Context, jobID string, job docstore.Record, resumeText, fileKey string) (Screening, error) {
	logger := i.getLogger(jobID)
	candidate := Parse(resumeText)
	score := i.matcher.Score(candidate, RequirementsOf(job))

	res := Screening{
		JobID:          jobID,
		CandidateName:  candidate.Name,
		CandidateEmail: candidate.Email,
		CandidateData:  candidate,
		Score:          score,
		ScreeningDate:  i.now().Format("2006-01-02T15:04:05"),
		Status:         "completed",
		ResumeFileKey:  fileKey,
	}
	id, err := i.store.InsertOne(ctx, docstore.ResumeScreeningCollection, res)
	if err != nil {
		return Screening{}, errors.Wrap(err, "save screening result")
	}
	res.ID = id
	logger.
		WithField("candidate", candidate.Name).
		WithField("overall_score", score.OverallScore).
		Info("resume screened")

	switch {
	case score.OverallScore >= 80:
		report := i.autoAdvance(ctx, res, logger)
		res.Notification = &report
	case score.OverallScore >= 60:
		report := i.requestReview(ctx, res)
		res.Notification = &report
	}
	return res, nil
}

func (i impl) autoAdvance(ctx context.Context, res Screening, logger *log.Entry) notify.Report {
	c := res.CandidateData
	_, err := i.store.InsertOne(ctx, docstore.CandidatesCollection, bson.D{
		{Key: "Name", Value: c.Name},
		{Key: "Email", Value: c.Email},
		{Key: "Phone", Value: c.Phone},
		{Key: "Skills", Value: c.Skills},
		{Key: "Status", Value: "Interview Scheduled"},
		{Key: "JobID", Value: res.JobID},
		{Key: "ScreeningScore", Value: res.Score.OverallScore},
		{Key: "ScreeningResult", Value: res.ID},
	})
	if err != nil {
		logger.WithError(err).Error("failed to create candidate record")
	}
	body := fmt.Sprintf("Dear %s,\n\nCongratulations! Your application has been shortlisted.\n\n"+
		"We would like to invite you for an interview. Our team will contact you shortly to schedule a convenient time.\n\n"+
		"Best regards,\n%s HR Team", c.Name, i.cfg.CompanyName)
	return i.notifier.Send(ctx, notify.Message{
		Workflow:   "resume_screening",
		Step:       "auto_advance",
		Subject:    fmt.Sprintf("Interview Invitation - %s", c.Name),
		Body:       body,
		Recipients: []string{c.Email},
	})
}

func (i impl) requestReview(ctx context.Context, res Screening) notify.Report {
	c := res.CandidateData
	body := fmt.Sprintf("HR Team,\n\nA candidate requires manual review:\n\nCandidate: %s\nEmail: %s\nScore: %d/100\n"+
		"Recommendation: %s\n\nReason: %s\n\nPlease review in the system.\n",
		c.Name, c.Email, res.Score.OverallScore, res.Score.Recommendation, res.Score.Reason)
	return i.notifier.Send(ctx, notify.Message{
		Workflow:   "resume_screening",
		Step:       "manual_review",
		Subject:    fmt.Sprintf("Manual Review Required - %s", c.Name),
		Body:       body,
		Recipients: []string{i.cfg.HREmail},
	})
}

func (i impl) ScreenFile(ctx context.Context, fileName string, data []byte, req ScreenRequest) (Screening, error) {
	text, err := ExtractText(fileName, data)
	if err != nil {
		return Screening{}, err
	}
	job, jobID, err := i.resolveJob(ctx, req.JobID, req.Department)
	if err != nil {
		return Screening{}, err
	}
	fileKey := ""
	if i.files != nil {
		fileKey, err = i.files.Upload(ctx, dbmodels.UploadFileInfo{
			OwnerRef: jobID,
			FileName: fileName,
			FileType: dbmodels.CandidateResume,
		}, data)
		if err != nil {
			i.getLogger(jobID).WithError(err).Warn("resume file not stored")
			fileKey = ""
		}
	}
	return i.screen(ctx, jobID, job, text, fileKey)
}

func (i impl) Results(ctx context.Context, jobID string, limit int64) ([]docstore.Record, error) {
	if limit <= 0 {
		limit = 100
	}
	filter := bson.M{}
	if jobID != "" {
		filter["job_id"] = jobID
	}
	return i.store.Find(ctx, docstore.ResumeScreeningCollection, filter, docstore.FindOptions{
		Sort:  bson.D{{Key: "screening_date", Value: -1}},
		Limit: limit,
	})
}

type jobIDAnswer struct {
	JobID *string `json:"job_id"`
}

// Handle screens the query text itself as the resume, for the job the model finds in it.
func (i impl) Handle(ctx context.Context, query string) models.AgentResult {
	var parsed jobIDAnswer
	res, err := llmhandler.AskJSON(ctx, i.llm, prompts.JobID, map[string]string{"Query": query}, &parsed)
	if err != nil {
		log.WithError(err).Error("job id extraction failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	if !res.Ok() {
		return models.Fail(models.KindParseError, "Failed to parse your request. Please try rephrasing.")
	}
	if parsed.JobID == nil || strings.TrimSpace(*parsed.JobID) == "" || strings.EqualFold(*parsed.JobID, "null") {
		return models.Fail(models.KindInputError, "Please provide a job ID for resume screening. Example: 'Screen resume for job JOB123'")
	}
	screening, err := i.Screen(ctx, ScreenRequest{ResumeText: query, JobID: *parsed.JobID})
	switch {
	case errors.Is(err, ErrJobNotFound):
		return models.Fail(models.KindNotFound, fmt.Sprintf("Job not found: %s", *parsed.JobID))
	case err != nil:
		log.WithError(err).Error("resume screening failed")
		return models.Fail(models.KindInternalError, models.InternalErrorAnswer)
	}
	return models.Ok(FormatScreening(screening.Score), screening)
}

func FormatScreening(s Score) string {
	none := func(list []string) string {
		if len(list) == 0 {
			return "None"
		}
		return strings.Join(list, ", ")
	}
	return fmt.Sprintf("Resume Screening Complete!\n\nOverall Score: %d/100\nRecommendation: %s\nReason: %s\n\nStrengths: %s\nMissing Skills: %s",
		s.OverallScore, strings.ToUpper(s.Recommendation), s.Reason, none(s.Strengths), none(s.MissingSkills))
}
