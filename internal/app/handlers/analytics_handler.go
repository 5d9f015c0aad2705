package handlers

import (
	"net/http"
	"time"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/pkg/consts"
	"loan-case-tracker/internal/pkg/models"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics app.AnalyticsService
}

func NewAnalyticsHandler(analytics app.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Summary takes optional from/to dates (YYYY-MM-DD, both inclusive).
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	r, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		badRequest(c, "from and to must be dates in YYYY-MM-DD format")
		return
	}
	c.JSON(http.StatusOK, h.analytics.Summary(c.Request.Context(), r))
}

func parseDateRange(from, to string) (models.DateRange, error) {
	var r models.DateRange
	if from != "" {
		t, err := time.Parse(consts.DateFormat, from)
		if err != nil {
			return r, err
		}
		r.From = t
	}
	if to != "" {
		t, err := time.Parse(consts.DateFormat, to)
		if err != nil {
			return r, err
		}
		r.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}
