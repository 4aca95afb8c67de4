package intent

import (
	"regexp"
	"strings"
)

type Category string

const (
	DatabaseOperation   Category = "database_operation"
	SendEmail           Category = "send_email"
	PredictAttrition    Category = "predict_attrition"
	ScreenResume        Category = "screen_resume"
	ScheduleMeeting     Category = "schedule_meeting"
	CoordinateInterview Category = "coordinate_interview"
	GenerateDocument    Category = "generate_document"
	ManageOnboarding    Category = "manage_onboarding"
	GeneralQA           Category = "general_qa"
)

var Categories = []Category{
	DatabaseOperation, SendEmail, PredictAttrition, ScreenResume, ScheduleMeeting,
	CoordinateInterview, GenerateDocument, ManageOnboarding, GeneralQA,
}

// Rule maps any keyword hit to a category. Keywords are lower-case substrings.
type Rule struct {
	Category Category
	Keywords []string
}

var (
	emailKeywords      = []string{"email", "mail", "send", "email id:", "subject:"}
	attritionKeywords  = []string{"attrition", "risk", "predict", "high risk", "likely to leave", "churn"}
	resumeKeywords     = []string{"screen resume", "review resume", "evaluate candidate", "resume screening", "applicant"}
	scheduleKeywords   = []string{"schedule", "book meeting", "set up interview", "arrange meeting", "calendar", "appointment"}
	interviewKeywords  = []string{"interview workflow", "interview round", "next round", "interview feedback", "interview reminder"}
	databaseKeywords   = []string{"show", "find", "list", "get", "display", "employee", "department", "salary", "performance", "leave", "balance"}
	documentKeywords   = []string{"generate", "create", "offer letter", "contract", "certificate", "document"}
	onboardingKeywords = []string{"onboard", "onboarding", "new hire", "welcome", "setup employee"}
	questionWords      = []string{"what", "why", "how", "when", "where", "who", "explain", "tell me about", "describe"}
)

// Router classifies free text with first-match-wins keyword groups.
type Router struct {
	before            []Rule
	database          []string
	after             []Rule
	questionWords     []string
	questionPrefixLen int
	fallback          Category
}

const DefaultQuestionPrefixLen = 20

func NewRouter(questionPrefixLen int) *Router {
	if questionPrefixLen <= 0 {
		questionPrefixLen = DefaultQuestionPrefixLen
	}
	return &Router{
		before: []Rule{
			{Category: SendEmail, Keywords: emailKeywords},
			{Category: PredictAttrition, Keywords: attritionKeywords},
			{Category: ScreenResume, Keywords: resumeKeywords},
			{Category: ScheduleMeeting, Keywords: scheduleKeywords},
			{Category: CoordinateInterview, Keywords: interviewKeywords},
		},
		database: databaseKeywords,
		after: []Rule{
			{Category: GenerateDocument, Keywords: documentKeywords},
			{Category: ManageOnboarding, Keywords: onboardingKeywords},
		},
		questionWords:     questionWords,
		questionPrefixLen: questionPrefixLen,
		fallback:          GeneralQA,
	}
}

func (r *Router) Classify(query string) Category {
	text := strings.ToLower(strings.TrimSpace(query))
	if text == "" {
		return r.fallback
	}
	for _, rule := range r.before {
		if containsAny(text, rule.Keywords) {
			return rule.Category
		}
	}
	if containsAny(text, r.database) {
		if r.startsWithQuestion(text) {
			return GeneralQA
		}
		return DatabaseOperation
	}
	for _, rule := range r.after {
		if containsAny(text, rule.Keywords) {
			return rule.Category
		}
	}
	return r.fallback
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// startsWithQuestion looks for whole question words inside the leading window of the text,
// so "show" does not count as "how".
func (r *Router) startsWithQuestion(text string) bool {
	prefix := text
	if len(prefix) > r.questionPrefixLen {
		prefix = prefix[:r.questionPrefixLen]
	}
	padded := " " + strings.TrimSpace(nonWord.ReplaceAllString(prefix, " ")) + " "
	for _, word := range r.questionWords {
		if strings.Contains(padded, " "+word+" ") {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
