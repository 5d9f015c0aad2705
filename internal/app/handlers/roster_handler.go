package handlers

import (
	"context"
	"net/http"

	"loan-case-tracker/internal/app"

	"github.com/gin-gonic/gin"
)

type rosterRequest struct {
	Name string `json:"name"`
}

// RosterHandler serves one name list, officers or banks.
type RosterHandler struct {
	list       func() []string
	referenced func() []string
	add        func(ctx context.Context, name string) error
	rename     func(ctx context.Context, oldName, newName string) error
	remove     func(ctx context.Context, name string) error
}

func NewOfficerHandler(svc app.RosterService) *RosterHandler {
	return &RosterHandler{
		list:       svc.Officers,
		referenced: svc.ReferencedOfficers,
		add:        svc.AddOfficer,
		rename:     svc.UpdateOfficer,
		remove:     svc.RemoveOfficer,
	}
}

func NewBankHandler(svc app.RosterService) *RosterHandler {
	return &RosterHandler{
		list:   svc.Banks,
		add:    svc.AddBank,
		rename: svc.UpdateBank,
		remove: svc.RemoveBank,
	}
}

func (h *RosterHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"names": h.list()})
}

// Referenced lists the names found on cases, including ones no longer on the
// roster. Bank lists have none.
func (h *RosterHandler) Referenced(c *gin.Context) {
	names := []string{}
	if h.referenced != nil {
		names = h.referenced()
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

func (h *RosterHandler) Add(c *gin.Context) {
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.add(c.Request.Context(), req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// Update renames :name to the body's name and cascades to cases.
func (h *RosterHandler) Update(c *gin.Context) {
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.rename(c.Request.Context(), c.Param("name"), req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name})
}

func (h *RosterHandler) Remove(c *gin.Context) {
	if err := h.remove(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
