package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/usecase"
)

// PerformanceHandler 公演一覧・統計・検索・カレンダーのハンドラー
type PerformanceHandler struct {
	performanceUseCase usecase.PerformanceUseCase
	logger             *logrus.Logger
}

func NewPerformanceHandler(performanceUseCase usecase.PerformanceUseCase, logger *logrus.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		performanceUseCase: performanceUseCase,
		logger:             logger,
	}
}

// GetProvincePerformances GET /api/provinces/:name/performances
func (h *PerformanceHandler) GetProvincePerformances(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		badRequest(c, &ValidationError{Field: "name", Message: "省名は必須です"})
		return
	}

	detail, err := h.performanceUseCase.ProvinceDetail(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetArtistHistory GET /api/artists/:name/history
func (h *PerformanceHandler) GetArtistHistory(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		badRequest(c, &ValidationError{Field: "name", Message: "アーティスト名は必須です"})
		return
	}

	history, err := h.performanceUseCase.ArtistHistory(c.Request.Context(), name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetStatistics GET /api/statistics
func (h *PerformanceHandler) GetStatistics(c *gin.Context) {
	stats, err := h.performanceUseCase.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Search GET /api/search?q=
func (h *PerformanceHandler) Search(c *gin.Context) {
	results, err := h.performanceUseCase.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

type calendarQuery struct {
	Year  int `form:"year" binding:"omitempty,min=1900,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// GetCalendar GET /api/calendar?year=&month= - 省略時は今月
func (h *PerformanceHandler) GetCalendar(c *gin.Context) {
	var query calendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	if (query.Year == 0) != (query.Month == 0) {
		badRequest(c, &ValidationError{Field: "year,month", Message: "yearとmonthは両方指定してください"})
		return
	}

	calendar, err := h.performanceUseCase.Calendar(c.Request.Context(), query.Year, time.Month(query.Month))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, calendar)
}

// GetTimeline GET /api/timeline?date=YYYY-MM-DD - 省略時は今日
func (h *PerformanceHandler) GetTimeline(c *gin.Context) {
	var center time.Time
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse(model.DateKeyLayout, raw)
		if err != nil {
			badRequest(c, &ValidationError{Field: "date", Message: "日付はYYYY-MM-DD形式で指定してください"})
			return
		}
		center = parsed
	}

	timeline, err := h.performanceUseCase.Timeline(c.Request.Context(), center)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, timeline)
}
