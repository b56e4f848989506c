package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/agent"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
)

type AgentHandler struct {
	agent *agent.Service
	log   *zap.Logger
}

func NewAgentHandler(svc *agent.Service, log *zap.Logger) *AgentHandler {
	return &AgentHandler{agent: svc, log: log.Named("agent_handler")}
}

type AgentRunRequest struct {
	UserInput string `json:"user_input" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

type AgentRunResponse struct {
	Response string `json:"response"`
}

func (h *AgentHandler) Run(c *gin.Context) {
	var req AgentRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "user_input and session_id are required.")
		return
	}

	out, err := h.agent.Run(c.Request.Context(), req.SessionID, req.UserInput)
	if err != nil {
		if errors.Is(err, agent.ErrEmptyInput) {
			httperr.BadRequest(c, httperr.CodeInvalidRequest, "user_input is empty.")
			return
		}
		h.log.Error("agent run failed", zap.String("session_id", req.SessionID), zap.Error(err))
		httperr.Internal(c, "agent_failed", "The assistant could not answer.")
		return
	}

	httpresp.OK(c, AgentRunResponse{Response: out})
}
