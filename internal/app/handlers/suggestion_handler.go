package handlers

import (
	"net/http"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/pkg/models"

	"github.com/gin-gonic/gin"
)

type SuggestionHandler struct {
	suggestions app.SuggestionService
}

func NewSuggestionHandler(suggestions app.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var input models.SuggestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := h.suggestions.Suggest(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
