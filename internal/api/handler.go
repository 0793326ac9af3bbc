package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Addyshimla/splashark/internal/bot/graph"
	"github.com/Addyshimla/splashark/internal/bot/model"
	errx "github.com/Addyshimla/splashark/internal/core/error"
	logx "github.com/Addyshimla/splashark/pkg/logger"
)

// ChatRequest is the front-end payload for one workflow run.
type ChatRequest struct {
	Message    string         `json:"message" binding:"required"`
	DeviceType string         `json:"device_type"`
	Action     string         `json:"action"`
	EditData   map[string]any `json:"edit_data"`
}

// ChatResponse wraps the workflow output. Output is either a plain string or
// a structured image result; clients must branch on the shape when rendering.
type ChatResponse struct {
	Output any    `json:"output"`
	Status string `json:"status"`
}

// Handler serves /chat by mapping requests onto workflow state.
type Handler struct {
	runner graph.Runner
}

func NewHandler(runner graph.Runner) *Handler {
	return &Handler{runner: runner}
}

// Chat handles POST /chat.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request: " + err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "message cannot be empty"})
		return
	}
	if req.DeviceType == "" {
		req.DeviceType = "desktop"
	}
	if req.Action == "" {
		req.Action = model.ActionChat
	}

	logx.Debug().
		Str("device_type", req.DeviceType).
		Str("action", req.Action).
		Msg("Received chat request")

	st := &model.ChatState{
		Input:      message,
		DeviceType: req.DeviceType,
		Action:     req.Action,
		EditData:   req.EditData,
	}

	result, err := h.runner.Invoke(c.Request.Context(), st)
	if err != nil {
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Status, gin.H{"detail": appErr.Message})
			return
		}
		logx.Error().Err(err).Msg("Workflow invocation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": errx.SystemErrorMessage})
		return
	}

	output := result.Output
	if output == nil {
		output = "No response generated"
	}

	c.JSON(http.StatusOK, ChatResponse{Output: output, Status: "success"})
}
