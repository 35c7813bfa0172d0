package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/service"
	"PerfMap-App/internal/usecase"
)

// MapHandler 地図描画のハンドラー
type MapHandler struct {
	mapViewUseCase usecase.MapViewUseCase
	logger         *logrus.Logger
}

func NewMapHandler(mapViewUseCase usecase.MapViewUseCase, logger *logrus.Logger) *MapHandler {
	return &MapHandler{
		mapViewUseCase: mapViewUseCase,
		logger:         logger,
	}
}

type mapQuery struct {
	Province string `form:"province" binding:"max=64"`
	Artist   string `form:"artist" binding:"max=128"`
}

func (h *MapHandler) build(c *gin.Context) (*usecase.MapView, bool) {
	var query mapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return nil, false
	}

	view, err := h.mapViewUseCase.Build(c.Request.Context(), service.HighlightInput{
		SelectedProvince: query.Province,
		FocusedArtist:    query.Artist,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return view, true
}

// GetMap GET /api/map - 地域ごとのパスと塗り分け
func (h *MapHandler) GetMap(c *gin.Context) {
	view, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetMapSVG GET /api/map.svg - SVG文書
func (h *MapHandler) GetMapSVG(c *gin.Context) {
	view, ok := h.build(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", usecase.RenderSVG(view))
}
