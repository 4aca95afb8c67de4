package apiv1

import (
	"io"

	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/chatbot"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/intent"
	mailcomposer "hr-agent-backend/lib/mail-composer"
	"hr-agent-backend/lib/resume"
	"hr-agent-backend/lib/scheduler"
	"hr-agent-backend/lib/smtp"
	"hr-agent-backend/models"
	apimodels "hr-agent-backend/models/api"
	agentapimodels "hr-agent-backend/models/api/agents"

	"github.com/gofiber/fiber/v2"
)

type agentsApiController struct {
	controllers.BaseAPIController
}

var agentErrorCodes = controllers.ErrorCodes{
	resume.ErrJobNotFound:     fiber.StatusNotFound,
	resume.ErrNoJobs:          fiber.StatusNotFound,
	resume.ErrUnsupportedFile: fiber.StatusBadRequest,
	scheduler.ErrNoSlots:      fiber.StatusConflict,
}

func InitAgentsApiRouters(app *fiber.App) {
	controller := agentsApiController{}
	app.Route("agents", func(router fiber.Router) {
		router.Route("resume-screening", func(screenRoute fiber.Router) {
			screenRoute.Post("", controller.screenResume)
			screenRoute.Post("upload", controller.screenResumeFile)
		})
		router.Get("screening-results", controller.screeningResults)
		router.Post("schedule-meeting", controller.scheduleMeeting)
		router.Get("scheduled-meetings", controller.scheduledMeetings)
		router.Post("database-query", controller.databaseQuery)
		router.Post("email", controller.email)
	})
}

// @Summary Screen resume
// @Tags Agents
// @Description Scores resume text against a job and advances or flags the candidate
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 resume.ScreenRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=resume.Screening}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/resume-screening [post]
func (c *agentsApiController) screenResume(ctx *fiber.Ctx) error {
	var payload resume.ScreenRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.ResumeText == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("resume_text is required"))
	}
	res, err := resume.Instance.Screen(ctx.UserContext(), payload)
	if err != nil {
		return c.SendMappedError(ctx, err, agentErrorCodes, "Failed to screen resume")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(resume.FormatScreening(res.Score), res))
}

// @Summary Screen resume file
// @Tags Agents
// @Description Extracts the text of an uploaded resume (pdf, docx, doc, rtf, odt, txt) and screens it
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   file	formData	file	true	"resume"
// @Param   job_id	formData	string	false	"job id"
// @Param   department	formData	string	false	"department used when no job id is given"
// @Success 200 {object} apimodels.Response{data=resume.Screening}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/resume-screening/upload [post]
func (c *agentsApiController) screenResumeFile(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("file is required"))
	}
	file, err := header.Open()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read the uploaded file")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read the uploaded file")
	}
	req := resume.ScreenRequest{
		JobID:      ctx.FormValue("job_id"),
		Department: ctx.FormValue("department"),
	}
	res, err := resume.Instance.ScreenFile(ctx.UserContext(), header.Filename, data, req)
	if err != nil {
		return c.SendMappedError(ctx, err, agentErrorCodes, "Failed to screen resume")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(resume.FormatScreening(res.Score), res))
}

// @Summary Screening results
// @Tags Agents
// @Description Stored screening results, newest first
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   job_id	query	string	false	"job id"
// @Param   limit	query	int	false	"max records"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/screening-results [get]
func (c *agentsApiController) screeningResults(ctx *fiber.Ctx) error {
	var filter agentapimodels.ScreeningResultsFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := resume.Instance.Results(ctx.UserContext(), filter.JobID, filter.Limit)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to read screening results")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docstore.ToJSONList(list)))
}

// @Summary Schedule meeting
// @Tags Agents
// @Description Books the first free working-hour slot for the participants
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 agentapimodels.MeetingRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=scheduler.Meeting}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/schedule-meeting [post]
func (c *agentsApiController) scheduleMeeting(ctx *fiber.Ctx) error {
	var payload agentapimodels.MeetingRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if len(payload.Participants) == 0 {
		return c.SendResult(ctx, scheduler.Instance.Handle(ctx.UserContext(), payload.Query))
	}
	meeting, err := scheduler.Instance.Schedule(ctx.UserContext(), scheduler.Request{
		MeetingType:     payload.MeetingType,
		Participants:    payload.Participants,
		DurationMinutes: payload.DurationMinutes,
		PreferredDate:   payload.PreferredDate,
		PreferredTime:   payload.PreferredTime,
		Subject:         payload.Subject,
		Notes:           payload.Notes,
	}, nil)
	if err != nil {
		return c.SendMappedError(ctx, err, agentErrorCodes, "Failed to schedule meeting")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(meeting.Notification.Summary(), meeting))
}

// @Summary Scheduled meetings
// @Tags Agents
// @Description Booked meetings and interviews, latest date first
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   status	query	string	false	"Scheduled or Cancelled"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/scheduled-meetings [get]
func (c *agentsApiController) scheduledMeetings(ctx *fiber.Ctx) error {
	var filter agentapimodels.MeetingsFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := scheduler.Instance.List(ctx.UserContext(), filter.Status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list meetings")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docstore.ToJSONList(list)))
}

// @Summary Database query
// @Tags Agents
// @Description Turns a natural-language request into a record operation and runs it
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 agentapimodels.AskRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/agents/database-query [post]
func (c *agentsApiController) databaseQuery(ctx *fiber.Ctx) error {
	var payload agentapimodels.AskRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return c.SendResult(ctx, chatbot.Instance.Run(ctx.UserContext(), intent.DatabaseOperation, payload.Query))
}

// @Summary Email
// @Tags Agents
// @Description Writes the body with the language model and mails it; the body is returned even when delivery fails
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 agentapimodels.EmailRequest	true	"request body"
// @Success 200 {object} mailcomposer.Result
// @Failure 400 {object} apimodels.Response
// @Failure 502 {object} mailcomposer.Result
// @Failure 503 {object} mailcomposer.Result
// @router /api/v1/agents/email [post]
func (c *agentsApiController) email(ctx *fiber.Ctx) error {
	var payload agentapimodels.EmailRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	res := mailcomposer.Instance.Compose(ctx.UserContext(), payload.Recipient, payload.Subject, payload.Context)
	status := fiber.StatusOK
	switch {
	case res.Success:
	case res.Kind != models.KindDeliveryError:
		status = controllers.StatusOf(res.Kind)
	case res.Error == smtp.ErrorNotConfigured:
		status = fiber.StatusServiceUnavailable
	case res.Error == smtp.ErrorInvalidRecipient:
		status = fiber.StatusBadRequest
	default:
		status = fiber.StatusBadGateway
	}
	return ctx.Status(status).JSON(res)
}
