package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-habit-reminder/internal/app"
)

type NotificationHandler struct {
	useCase app.NotificationUseCase
}

func NewNotificationHandler(useCase app.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		useCase: useCase,
	}
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID := c.Param("user_id")

	slog.Info("handling get notification settings request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", userID,
	)

	output, err := h.useCase.GetSettings(c.Request.Context(), app.GetSettingsInput{
		UserID: userID,
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromDTO(output))
}

func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID := c.Param("user_id")

	slog.Info("handling update notification settings request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", userID,
	)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Field:   "",
		})

		return
	}

	output, err := h.useCase.UpdateSettings(c.Request.Context(), app.UpdateSettingsInput{
		UserID:       userID,
		Enabled:      req.Enabled,
		ReminderTime: req.ReminderTime,
		Timezone:     req.Timezone,
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("notification settings updated",
		"user_id", output.UserID,
		"enabled", output.Enabled,
		"reminder_time", output.ReminderTime,
		"timezone", output.Timezone,
	)
	c.JSON(http.StatusOK, FromDTO(output))
}

func (h *NotificationHandler) RegisterToken(c *gin.Context) {
	userID := c.Param("user_id")

	slog.Info("handling register token request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"user_id", userID,
	)

	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("request validation failed",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Field:   "fcm_token",
		})

		return
	}

	output, err := h.useCase.RegisterToken(c.Request.Context(), app.RegisterTokenInput{
		UserID:   userID,
		FCMToken: req.FCMToken,
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.Info("delivery target registered",
		"user_id", output.UserID,
	)
	c.JSON(http.StatusOK, FromDTO(output))
}

func (h *NotificationHandler) handleError(c *gin.Context, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})

		return
	}

	if errors.Is(err, app.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "resource not found",
			Field:   "",
		})

		return
	}

	slog.Error("notification request failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
		Field:   "",
	})
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/users/:user_id/notifications")
	{
		notifications.GET("/settings", h.GetSettings)
		notifications.PUT("/settings", h.UpdateSettings)
		notifications.POST("/token", h.RegisterToken)
	}
}
