package http

import (
	"net/http"
	"strconv"

	"toolwatch/internal/api/dto"
	"toolwatch/internal/api/service"
	"toolwatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExecutionHandler handles HTTP requests for the execution log.
type ExecutionHandler struct {
	executionService service.ExecutionService
	logger           *logger.Logger
}

// NewExecutionHandler creates a new ExecutionHandler.
func NewExecutionHandler(executionService service.ExecutionService, logger *logger.Logger) *ExecutionHandler {
	return &ExecutionHandler{executionService: executionService, logger: logger}
}

// RegisterRoutes registers the execution routes to the Echo group.
func (h *ExecutionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecentExecutions)
	g.POST("", h.IngestExecution)
	g.GET("/stats", h.GetStatistics)
}

// GetRecentExecutions godoc
// @Summary Get recent executions
// @Description Get the newest execution records wrapped in the executions envelope
// @Tags executions
// @Produce  json
// @Param   limit  query   int false   "Maximum records to return"
// @Success 200 {object} dto.ExecutionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [get]
func (h *ExecutionHandler) GetRecentExecutions(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		limit = parsed
	}

	executions, err := h.executionService.GetRecentExecutions(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get recent executions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get executions"})
	}

	return c.JSON(http.StatusOK, executions)
}

// IngestExecution godoc
// @Summary Ingest an execution record
// @Description Store an execution performed outside the runner
// @Tags executions
// @Accept  json
// @Produce  json
// @Param   execution  body    dto.IngestExecutionRequest true    "Execution record"
// @Success 201 {object} dto.ExecutionRecordResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [post]
func (h *ExecutionHandler) IngestExecution(c echo.Context) error {
	req := new(dto.IngestExecutionRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if req.ToolName == "" || req.Command == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tool_name and command are required"})
	}

	record, err := h.executionService.IngestExecution(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Failed to ingest execution", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store execution"})
	}

	return c.JSON(http.StatusCreated, record)
}

// GetStatistics godoc
// @Summary Get execution statistics
// @Description Get the aggregate view over the whole execution log
// @Tags executions
// @Produce  json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions/stats [get]
func (h *ExecutionHandler) GetStatistics(c echo.Context) error {
	stats, err := h.executionService.GetStatistics(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get execution statistics", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get statistics"})
	}

	return c.JSON(http.StatusOK, stats)
}
