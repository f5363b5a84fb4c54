package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"automl_backend/config"
	"automl_backend/dao"
	"automl_backend/middleware"
	"automl_backend/service"

	"github.com/gin-gonic/gin"
)

func handlerLogger() *slog.Logger {
	logger := config.EnsureLoggerInitialized()
	if logger == nil {
		return slog.Default().With("layer", "handler")
	}
	return logger.With("layer", "handler")
}

// currentUserID 取认证中间件写入的用户标识。
func currentUserID(ctx *gin.Context) string {
	return ctx.GetString(middleware.UserIDKey)
}

func writeHTTPError(ctx *gin.Context, err error) {
	logger := handlerLogger().With(
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
	)

	switch {
	case errors.Is(err, dao.ErrInvalidID),
		errors.Is(err, dao.ErrNilEntity),
		errors.Is(err, service.ErrAlgorithmsRequired),
		errors.Is(err, service.ErrInvalidTestFraction),
		errors.Is(err, service.ErrInvalidProblemType),
		errors.Is(err, service.ErrDatasetNameRequired),
		errors.Is(err, service.ErrDatasetColumnsRequired),
		errors.Is(err, service.ErrInvalidTargetColumn),
		errors.Is(err, service.ErrEmptyCSV),
		errors.Is(err, service.ErrInvalidCSV),
		errors.Is(err, service.ErrUsernameRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrTrainerKeyRequired):
		logger.Warn("request failed", "status", http.StatusBadRequest, "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDatasetTooLarge):
		logger.Warn("request failed", "status", http.StatusRequestEntityTooLarge, "error", err)
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		logger.Warn("request failed", "status", http.StatusUnauthorized, "error", err)
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, dao.ErrNotFound), errors.Is(err, service.ErrTrainerNotFound):
		logger.Warn("request failed", "status", http.StatusNotFound, "error", err)
		ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, dao.ErrAlreadyExists):
		logger.Warn("request failed", "status", http.StatusConflict, "error", err)
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed", "status", http.StatusInternalServerError, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
