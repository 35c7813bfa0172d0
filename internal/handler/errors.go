package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/model"
)

// ValidationError リクエストパラメータの検証エラー
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_parameter",
		"message": err.Error(),
	})
}

// respondError ドメインのエラーをHTTPステータスに対応させる
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, model.ErrEmptyMap):
		status, code = http.StatusServiceUnavailable, "empty_map"
	case errors.Is(err, model.ErrFetchFailed), errors.Is(err, model.ErrMalformedPayload):
		status, code = http.StatusBadGateway, "upstream_error"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"status":     status,
		"request_id": c.GetString(requestIDKey),
	}).Error("❌ リクエストの処理に失敗")

	c.JSON(status, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}
