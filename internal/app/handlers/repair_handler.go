package handlers

import (
	"net/http"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/gin-gonic/gin"
)

type RepairHandler struct {
	repairs app.RepairService
	writer  interfaces.CaseChildWriter
}

func NewRepairHandler(repairs app.RepairService, writer interfaces.CaseChildWriter) *RepairHandler {
	return &RepairHandler{repairs: repairs, writer: writer}
}

// Run drains one batch of queued repairs on demand.
func (h *RepairHandler) Run(c *gin.Context) {
	report, err := h.repairs.Drain(c.Request.Context(), h.writer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *RepairHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	pending, err := h.repairs.Pending(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	dead, err := h.repairs.DeadLetters(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending, "dead": dead})
}
