package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/flow"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

// FlowHandler exposes each chat transition as its own endpoint. The
// machine never fails; every outcome is a Reply.
type FlowHandler struct {
	machine *flow.Machine
}

func NewFlowHandler(machine *flow.Machine) *FlowHandler {
	return &FlowHandler{machine: machine}
}

// ======================================================
// REQUESTS
// ======================================================

type FlowInput struct {
	Value string `json:"value"`
}

// ======================================================
// TRIGGERS
// ======================================================

func (h *FlowHandler) Start(c *gin.Context) {
	h.bare(c, h.machine.Start)
}

func (h *FlowHandler) Cancel(c *gin.Context) {
	h.bare(c, h.machine.Cancel)
}

func (h *FlowHandler) SelectCategory(c *gin.Context) {
	h.valued(c, h.machine.SelectCategory)
}

func (h *FlowHandler) SelectService(c *gin.Context) {
	h.valued(c, h.machine.SelectService)
}

func (h *FlowHandler) ProvideDate(c *gin.Context) {
	h.valued(c, h.machine.ProvideDate)
}

func (h *FlowHandler) SelectTime(c *gin.Context) {
	h.valued(c, h.machine.SelectTime)
}

func (h *FlowHandler) Finalize(c *gin.Context) {
	h.valued(c, h.machine.Finalize)
}

func (h *FlowHandler) Message(c *gin.Context) {
	h.valued(c, h.machine.Message)
}

func (h *FlowHandler) Explore(c *gin.Context) {
	httpresp.OK(c, h.machine.Explore())
}

func (h *FlowHandler) Hours(c *gin.Context) {
	httpresp.OK(c, h.machine.Hours())
}

// ======================================================
// HELPERS
// ======================================================

func (h *FlowHandler) bare(c *gin.Context, fn func(context.Context, string) flow.Reply) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	httpresp.OK(c, fn(c.Request.Context(), id))
}

func (h *FlowHandler) valued(c *gin.Context, fn func(context.Context, string, string) flow.Reply) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var in FlowInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Expected a JSON body with a value.")
		return
	}

	httpresp.OK(c, fn(c.Request.Context(), id, in.Value))
}

func sessionID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("session_id"))
	if id == "" || len(id) > 128 {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid session id.")
		return "", false
	}
	return id, true
}
