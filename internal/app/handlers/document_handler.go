package handlers

import (
	"errors"
	"net/http"
	"strings"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/service/documents"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	cases          app.CaseService
	maxUploadBytes int64
}

func NewDocumentHandler(cases app.CaseService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{cases: cases, maxUploadBytes: maxUploadBytes}
}

// Upload handles the multipart {file, caseId, documentType} upload and
// returns the persisted document record.
func (h *DocumentHandler) Upload(c *gin.Context) {
	caseID := strings.TrimSpace(c.PostForm("caseId"))
	documentType := strings.TrimSpace(c.PostForm("documentType"))
	header, err := c.FormFile("file")
	if err != nil || caseID == "" || documentType == "" {
		badRequest(c, "file, caseId and documentType are required")
		return
	}

	att, err := readAttachment(documentType, header, h.maxUploadBytes)
	if errors.Is(err, documents.ErrUploadLimitExceeded) {
		respondError(c, err)
		return
	}
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	doc, err := h.cases.UpdateCaseDocument(c.Request.Context(), caseID, att)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
