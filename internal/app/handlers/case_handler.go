package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/pkg/gateway"
	"loan-case-tracker/internal/pkg/models"
	"loan-case-tracker/internal/service/documents"

	"github.com/gin-gonic/gin"
)

// casePayloadField carries the JSON draft in a multipart add-case request.
// Every other file part is an attachment keyed by its document type.
const casePayloadField = "case"

type CaseHandler struct {
	cases          app.CaseService
	maxUploadBytes int64
}

// NewCaseHandler rejects multipart requests whose files exceed
// maxUploadBytes before reading them. Zero disables the check.
func NewCaseHandler(cases app.CaseService, maxUploadBytes int64) *CaseHandler {
	return &CaseHandler{cases: cases, maxUploadBytes: maxUploadBytes}
}

func (h *CaseHandler) ListCases(c *gin.Context) {
	var filter models.CaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": h.cases.Cases(filter)})
}

func (h *CaseHandler) GetCase(c *gin.Context) {
	found, ok := h.cases.GetByID(c.Param("id"))
	if !ok {
		respondError(c, gateway.ErrCaseNotFound)
		return
	}
	c.JSON(http.StatusOK, found)
}

// AddCase accepts either a JSON draft or a multipart form with the draft in
// the "case" field and one file per document type.
func (h *CaseHandler) AddCase(c *gin.Context) {
	var (
		draft       models.CaseDraft
		attachments []models.Attachment
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		payload := form.Value[casePayloadField]
		if len(payload) == 0 {
			badRequest(c, "multipart field \"case\" is required")
			return
		}
		if err := json.Unmarshal([]byte(payload[0]), &draft); err != nil {
			badRequest(c, err.Error())
			return
		}
		attachments, err = formAttachments(form.File, h.maxUploadBytes)
		if err != nil {
			respondError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err.Error())
		return
	}

	created, err := h.cases.AddCase(c.Request.Context(), draft, attachments)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CaseHandler) UpdateStatus(c *gin.Context) {
	var update models.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err.Error())
		return
	}
	updated, err := h.cases.UpdateCaseStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CaseHandler) Reload(c *gin.Context) {
	if err := h.cases.Load(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": len(h.cases.Cases(models.CaseFilter{}))})
}

// formAttachments reads every file part in document type order. The
// declared sizes are checked against maxBytes before any part is read.
func formAttachments(files map[string][]*multipart.FileHeader, maxBytes int64) ([]models.Attachment, error) {
	types := make([]string, 0, len(files))
	var total int64
	for documentType, headers := range files {
		if len(headers) == 0 {
			continue
		}
		types = append(types, documentType)
		total += headers[0].Size
	}
	sort.Strings(types)
	if maxBytes > 0 && total > maxBytes {
		return nil, fmt.Errorf("%w: attachments total %d bytes, limit is %d", documents.ErrUploadLimitExceeded, total, maxBytes)
	}

	attachments := make([]models.Attachment, 0, len(types))
	for _, documentType := range types {
		att, err := readAttachment(documentType, files[documentType][0], maxBytes)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, nil
}

func readAttachment(documentType string, header *multipart.FileHeader, maxBytes int64) (models.Attachment, error) {
	if maxBytes > 0 && header.Size > maxBytes {
		return models.Attachment{}, fmt.Errorf("%w: %s is %d bytes, limit is %d",
			documents.ErrUploadLimitExceeded, header.Filename, header.Size, maxBytes)
	}
	f, err := header.Open()
	if err != nil {
		return models.Attachment{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.Attachment{}, err
	}
	return models.Attachment{
		DocumentType: documentType,
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Data:         data,
	}, nil
}
