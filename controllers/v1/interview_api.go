package apiv1

import (
	"hr-agent-backend/controllers"
	"hr-agent-backend/lib/docstore"
	"hr-agent-backend/lib/interview"
	"hr-agent-backend/lib/scheduler"
	apimodels "hr-agent-backend/models/api"
	interviewapimodels "hr-agent-backend/models/api/interview"

	"github.com/gofiber/fiber/v2"
)

type interviewApiController struct {
	controllers.BaseAPIController
}

var interviewErrorCodes = controllers.ErrorCodes{
	interview.ErrConflict:          fiber.StatusConflict,
	interview.ErrWorkflowExists:    fiber.StatusConflict,
	interview.ErrWorkflowClosed:    fiber.StatusConflict,
	interview.ErrNoWorkflow:        fiber.StatusNotFound,
	interview.ErrNextRoundNotReady: fiber.StatusBadRequest,
	interview.ErrRoundNotScheduled: fiber.StatusBadRequest,
	interview.ErrTooEarly:          fiber.StatusBadRequest,
	interview.ErrAlreadyHeld:       fiber.StatusBadRequest,
	interview.ErrNoInterviewAt:     fiber.StatusBadRequest,
	scheduler.ErrNoSlots:           fiber.StatusConflict,
}

func InitInterviewApiRouters(app *fiber.App) {
	controller := interviewApiController{}
	app.Route("interview", func(router fiber.Router) {
		router.Get("list", controller.list)
		router.Get("lookup", controller.lookup)
		router.Route("workflows", func(wfRoute fiber.Router) {
			wfRoute.Get("", controller.workflows)
			wfRoute.Post("", controller.createWorkflow)
			wfRoute.Post("next-round", controller.nextRound)
		})
		router.Post("reminders/send-due", controller.sendDueReminders)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Post("feedback", controller.feedback)
			idRoute.Post("reminder", controller.reminder)
		})
	})
}

// @Summary Workflows
// @Tags Interview
// @Description Interview workflows, newest first
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   status	query	string	false	"active, completed or rejected"
// @Success 200 {object} apimodels.Response{data=[]interview.Workflow}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/workflows [get]
func (c *interviewApiController) workflows(ctx *fiber.Ctx) error {
	var filter interviewapimodels.StatusFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := interview.Instance.Workflows(ctx.UserContext(), filter.Status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list interview workflows")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Interviews
// @Tags Interview
// @Description Booked interviews and meetings
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   status	query	string	false	"Scheduled, Completed or Cancelled"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/list [get]
func (c *interviewApiController) list(ctx *fiber.Ctx) error {
	var filter interviewapimodels.StatusFilter
	if err := c.QueryParser(ctx, &filter); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := interview.Instance.Interviews(ctx.UserContext(), filter.Status)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to list interviews")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docstore.ToJSONList(list)))
}

// @Summary Lookup
// @Tags Interview
// @Description Resolves an interview identifier and reports the strategy that matched
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	query	string	true	"InterviewID, ObjectId, ObjectId prefix, subject or candidate email"
// @Success 200 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/lookup [get]
func (c *interviewApiController) lookup(ctx *fiber.Ctx) error {
	id := ctx.Query("id")
	if id == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("id is required"))
	}
	rec, strategy, err := interview.Instance.FindInterview(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to look up interview")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{
		"strategy":  strategy,
		"interview": docstore.ToJSON(rec),
	}))
}

// @Summary Create workflow
// @Tags Interview
// @Description Opens a multi-round workflow for a candidate and books the first round
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 interviewapimodels.CreateWorkflowRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interview.Created}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/workflows [post]
func (c *interviewApiController) createWorkflow(ctx *fiber.Ctx) error {
	var payload interviewapimodels.CreateWorkflowRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	created, err := interview.Instance.CreateWorkflow(ctx.UserContext(), payload.CandidateID, payload.JobID, payload.Rounds)
	if err != nil {
		return c.SendMappedError(ctx, err, interviewErrorCodes, "Failed to create interview workflow")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(created))
}

// @Summary Feedback
// @Tags Interview
// @Description Records interviewer feedback, analyses it and advances the workflow
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"interview identifier"
// @Param	body body	 interviewapimodels.FeedbackRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interview.FeedbackResult}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id}/feedback [post]
func (c *interviewApiController) feedback(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload interviewapimodels.FeedbackRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	res, err := interview.Instance.CollectFeedback(ctx.UserContext(), id, payload.Interviewer, payload.Feedback)
	if err != nil {
		return c.SendMappedError(ctx, err, interviewErrorCodes, "Failed to record interview feedback")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(res))
}

// @Summary Schedule next round
// @Tags Interview
// @Description Books the round a workflow is waiting on
// @Param   Authorization		header		string	false	"Authorization token"
// @Param	body body	 interviewapimodels.NextRoundRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/workflows/next-round [post]
func (c *interviewApiController) nextRound(ctx *fiber.Ctx) error {
	var payload interviewapimodels.NextRoundRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.Ref == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("ref is required"))
	}
	wf, meeting, err := interview.Instance.ScheduleNext(ctx.UserContext(), payload.Ref)
	if err != nil {
		return c.SendMappedError(ctx, err, interviewErrorCodes, "Failed to schedule the next round")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{
		"workflow": wf,
		"meeting":  meeting,
	}))
}

// @Summary Reminder
// @Tags Interview
// @Description Mails a reminder to every participant of an upcoming interview
// @Param   Authorization		header		string	false	"Authorization token"
// @Param   id	path	string	true	"interview identifier"
// @Param	body body	 interviewapimodels.ReminderRequest	false	"request body"
// @Success 200 {object} apimodels.Response{data=interview.Reminder}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/{id}/reminder [post]
func (c *interviewApiController) reminder(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload interviewapimodels.ReminderRequest
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if payload.HoursBefore <= 0 {
		payload.HoursBefore = interview.DefaultHoursBefore
	}
	res, err := interview.Instance.SendReminder(ctx.UserContext(), id, payload.HoursBefore)
	if err != nil {
		return c.SendMappedError(ctx, err, interviewErrorCodes, "Failed to send interview reminder")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewMessage(res.Notification.Summary(), res))
}

// @Summary Send due reminders
// @Tags Interview
// @Description Runs one pass of the reminder worker
// @Param   Authorization		header		string	false	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interview/reminders/send-due [post]
func (c *interviewApiController) sendDueReminders(ctx *fiber.Ctx) error {
	sent, err := interview.Instance.SendDueReminders(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Failed to send due reminders")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(fiber.Map{"sent": sent}))
}
