package server

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError переводит ошибку ядра в HTTP-ответ {code, message}
func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(statusForKind(appErr.Kind), gin.H{
			"code":    appErr.Kind,
			"message": appErr.Message,
		})
		return
	}

	s.logger.Error("Internal error",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "INTERNAL",
		"message": "internal server error",
	})
}

func (s *Server) respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    apperr.KindValidation,
		"message": err.Error(),
	})
}
