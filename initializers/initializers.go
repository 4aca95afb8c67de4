package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"hr-agent-backend/config"
	"hr-agent-backend/fiberlog"
	"hr-agent-backend/lib/analytics"
	"hr-agent-backend/lib/attrition"
	"hr-agent-backend/lib/chatbot"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/documents"
	"hr-agent-backend/lib/employee"
	xlsexport "hr-agent-backend/lib/export/xls"
	filestorage "hr-agent-backend/lib/file-storage"
	"hr-agent-backend/lib/intent"
	"hr-agent-backend/lib/interview"
	reminderworker "hr-agent-backend/lib/interview/reminder-worker"
	"hr-agent-backend/lib/job"
	llmhandler "hr-agent-backend/lib/llm"
	mailcomposer "hr-agent-backend/lib/mail-composer"
	"hr-agent-backend/lib/notify"
	"hr-agent-backend/lib/onboarding"
	"hr-agent-backend/lib/resume"
	"hr-agent-backend/lib/scheduler"
	"hr-agent-backend/lib/smtp"
	"hr-agent-backend/lib/utils/lock"
)

var LoggerConfig *fiberlog.Config

// InitAllServices connects the collaborators and builds every handler. The CLI calls it
// with workers=false.
func InitAllServices(ctx context.Context, workers bool) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()
	InitDocStore(ctx)
	InitS3(ctx)
	InitSmtp()
	lock.InitResourceLock(ctx)
	InitLLM(ctx)
	initHandlers()
	if workers {
		go initWorkers(ctx)
	}
}

func initHandlers() {
	store := docstore.Instance
	llm := llmhandler.Instance
	app := config.Conf.App

	employee.NewHandler(store)
	job.NewHandler(store)
	xlsexport.NewHandler()

	model, err := attrition.Load(config.Conf.Models.Dir)
	if err != nil {
		log.WithError(err).Warn("attrition model not loaded, predictions are unavailable")
		model = nil
	}
	attrition.NewHandler(store, model)

	forecaster, err := analytics.LoadForecaster(config.Conf.Models.Dir)
	if err != nil {
		log.WithError(err).Warn("performance forecaster not loaded, trend is empty")
		forecaster = nil
	}
	analytics.NewHandler(store, forecaster)

	scheduler.NewHandler(store, llm, notify.Instance, scheduler.Config{CompanyName: app.CompanyName})
	resume.NewHandler(store, llm, notify.Instance, filestorage.Instance, resume.NewMatcher(nil), resume.Config{
		HREmail:     app.HREmail,
		CompanyName: app.CompanyName,
	})
	interview.NewHandler(store, llm, notify.Instance, scheduler.Instance, interview.Config{
		HREmail:     app.HREmail,
		CompanyName: app.CompanyName,
		HoursBefore: config.Conf.Workers.ReminderHoursBefore,
	})
	documents.NewHandler(store, llm, notify.Instance, filestorage.Instance, employee.Instance, documents.Config{
		CompanyName:    app.CompanyName,
		CompanyContact: app.HREmail,
	})
	onboarding.NewHandler(store, llm, notify.Instance, scheduler.Instance, documents.Instance, employee.Instance, onboarding.Config{
		HREmail:     app.HREmail,
		CompanyName: app.CompanyName,
	})
	mailcomposer.NewHandler(llm, smtp.Instance)

	chatbot.NewHandler(intent.NewRouter(config.Conf.Router.QuestionPrefixLen), map[intent.Category]chatbot.Agent{
		intent.DatabaseOperation:   chatbot.DatabaseAgent(store, llm),
		intent.SendEmail:           mailcomposer.Instance,
		intent.PredictAttrition:    attrition.Instance,
		intent.ScreenResume:        resume.Instance,
		intent.ScheduleMeeting:     scheduler.Instance,
		intent.CoordinateInterview: interview.Instance,
		intent.GenerateDocument:    documents.Instance,
		intent.ManageOnboarding:    onboarding.Instance,
		intent.GeneralQA:           chatbot.GeneralAgent(analytics.Instance, llm, app.CompanyName),
	}, chatbot.NewLogStore(store, time.Now))
}

func initWorkers(ctx context.Context) {
	if !*config.Conf.Workers.ReminderEnabled {
		return
	}
	interval := time.Duration(config.Conf.Workers.ReminderIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	reminderworker.StartWorker(ctx, interval)
}
