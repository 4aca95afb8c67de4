package apiv1

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"hr-agent-backend/lib/chatbot"
	agentapimodels "hr-agent-backend/models/api/agents"
)

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

func InitAskWsRouters(app *fiber.App) {
	app.Use("ws", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("ws/ask", websocket.New(askSession))
}

// @Summary Ask over websocket
// @Tags Chatbot
// @Description Each incoming message is a query, either plain text or an AskRequest; each answer is an AskResponse
// @Param   Authorization		header		string	false	"Authorization token"
// @Success 101 {object} agentapimodels.AskResponse
// @router /api/v1/ws/ask [get]
func askSession(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				log.WithError(err).Error("websocket read failed")
			}
			return
		}
		query := wsQuery(data)
		if query == "" {
			err = conn.WriteJSON(agentapimodels.AskResponse{Answer: "Query is required"})
		} else {
			reply := chatbot.Instance.Ask(ctx, query)
			err = conn.WriteJSON(agentapimodels.AskResponse{
				Success:   reply.Success,
				Answer:    reply.Answer,
				QueryType: string(reply.QueryType),
				Data:      reply.Data,
			})
		}
		if err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
	}
}

// wsQuery accepts {"query": "..."} as well as the bare text.
func wsQuery(data []byte) string {
	var req agentapimodels.AskRequest
	if err := json.Unmarshal(data, &req); err == nil {
		return strings.TrimSpace(req.Query)
	}
	return strings.TrimSpace(string(data))
}
