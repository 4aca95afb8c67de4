package docstore

const (
	EmployeeCollection          = "employee"
	LeaveAttendanceCollection   = "Leave_Attendance"
	PerformanceCollection       = "Performance"
	CandidatesCollection        = "Candidates"
	InterviewsCollection        = "Interviews"
	JobsCollection              = "Jobs"
	OnboardingCollection        = "Onboarding"
	AttritionCollection         = "Attrition"
	CommunicationCollection     = "Communication"
	ResumeScreeningCollection   = "Resume_screening"
	SkillCoursesCollection      = "skill_courses"
	ChatbotLogsCollection       = "Chatbot_Logs"
	InterviewWorkflowCollection = "Interview_Workflows"
	InterviewFeedbackCollection = "Interview_Feedback"
	GeneratedDocsCollection     = "Generated_Documents"
)

// KnownCollections is the list advertised to the language model when it builds a command.
var KnownCollections = []string{
	EmployeeCollection,
	LeaveAttendanceCollection,
	PerformanceCollection,
	CandidatesCollection,
	InterviewsCollection,
	JobsCollection,
	OnboardingCollection,
	AttritionCollection,
	CommunicationCollection,
	ResumeScreeningCollection,
	SkillCoursesCollection,
	ChatbotLogsCollection,
	InterviewWorkflowCollection,
	InterviewFeedbackCollection,
	GeneratedDocsCollection,
}
