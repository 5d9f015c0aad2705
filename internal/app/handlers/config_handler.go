package handlers

import (
	"net/http"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/pkg/models"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	config app.ConfigService
}

func NewConfigHandler(config app.ConfigService) *ConfigHandler {
	return &ConfigHandler{config: config}
}

func (h *ConfigHandler) GetConfiguration(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configuration": h.config.Configuration(),
		"lastError":     h.config.LastError(),
	})
}

func (h *ConfigHandler) AddItem(c *gin.Context) {
	var item models.ConfigItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, err.Error())
		return
	}
	added, err := h.config.AddConfigItem(c.Request.Context(), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *ConfigHandler) DeleteItem(c *gin.Context) {
	if err := h.config.DeleteConfigItem(c.Request.Context(), c.Param("category"), c.Param("value")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Init seeds the default options. It fails with 409 once the table has rows.
func (h *ConfigHandler) Init(c *gin.Context) {
	inserted, err := h.config.InitConfiguration(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": inserted})
}
