package http

import (
	"errors"
	"net/http"

	"toolwatch/internal/api/dto"
	"toolwatch/internal/api/service"
	"toolwatch/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ToolHandler handles HTTP requests for the tool registry.
type ToolHandler struct {
	toolService service.ToolService
	logger      *logger.Logger
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(toolService service.ToolService, logger *logger.Logger) *ToolHandler {
	return &ToolHandler{toolService: toolService, logger: logger}
}

// RegisterRoutes registers the tool routes to the Echo group.
func (h *ToolHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateTool)
	g.GET("", h.GetAllTools)
	g.GET("/:name", h.GetToolByName)
	g.PUT("/:name", h.UpdateTool)
	g.DELETE("/:name", h.DeleteTool)
	g.POST("/:name/invoke", h.InvokeTool)
}

// CreateTool godoc
// @Summary Create a new tool
// @Description Register a tool that the runner can execute
// @Tags tools
// @Accept  json
// @Produce  json
// @Param   tool  body    dto.CreateToolRequest   true    "Tool to create"
// @Success 201 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tools [post]
func (h *ToolHandler) CreateTool(c echo.Context) error {
	var req dto.CreateToolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	toolResponse, err := h.toolService.CreateTool(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToolType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to create tool", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create tool"})
	}

	return c.JSON(http.StatusCreated, toolResponse)
}

// GetAllTools godoc
// @Summary Get all tools
// @Description Get all registered tools
// @Tags tools
// @Produce  json
// @Success 200 {array} dto.ToolResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tools [get]
func (h *ToolHandler) GetAllTools(c echo.Context) error {
	tools, err := h.toolService.GetAllTools(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get all tools", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get tools"})
	}
	return c.JSON(http.StatusOK, tools)
}

// GetToolByName godoc
// @Summary Get a tool by name
// @Description Get a single tool by its unique name
// @Tags tools
// @Produce  json
// @Param   name  path    string true    "Tool name"
// @Success 200 {object} dto.ToolResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tools/{name} [get]
func (h *ToolHandler) GetToolByName(c echo.Context) error {
	name := c.Param("name")

	toolResponse, err := h.toolService.GetToolByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Tool not found"})
		}
		h.logger.Error("Failed to get tool", logger.ErrorField(err), logger.StringField("name", name))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get tool"})
	}

	return c.JSON(http.StatusOK, toolResponse)
}

// UpdateTool godoc
// @Summary Update an existing tool
// @Description Update a registered tool with the given details
// @Tags tools
// @Accept  json
// @Produce  json
// @Param   name  path    string true    "Tool name"
// @Param   tool  body    dto.UpdateToolRequest   true    "Tool to update"
// @Success 200 {object} dto.ToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tools/{name} [put]
func (h *ToolHandler) UpdateTool(c echo.Context) error {
	name := c.Param("name")

	var req dto.UpdateToolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	toolResponse, err := h.toolService.UpdateTool(c.Request().Context(), name, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Tool not found"})
		}
		if errors.Is(err, service.ErrInvalidToolType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to update tool", logger.ErrorField(err), logger.StringField("name", name))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update tool"})
	}

	return c.JSON(http.StatusOK, toolResponse)
}

// DeleteTool godoc
// @Summary Delete a tool
// @Description Delete a tool by its name
// @Tags tools
// @Produce  json
// @Param   name  path    string true    "Tool name"
// @Success 204 {object} nil
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tools/{name} [delete]
func (h *ToolHandler) DeleteTool(c echo.Context) error {
	name := c.Param("name")

	if err := h.toolService.DeleteTool(c.Request().Context(), name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Tool not found"})
		}
		h.logger.Error("Failed to delete tool", logger.ErrorField(err), logger.StringField("name", name))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete tool"})
	}

	return c.NoContent(http.StatusNoContent)
}

// InvokeTool godoc
// @Summary Invoke a tool
// @Description Queue a tool invocation for the runner to pick up
// @Tags tools
// @Accept  json
// @Produce  json
// @Param   name  path    string true    "Tool name"
// @Param   invocation  body    dto.InvokeToolRequest false    "Invocation arguments"
// @Success 202 {object} dto.InvokeToolResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tools/{name}/invoke [post]
func (h *ToolHandler) InvokeTool(c echo.Context) error {
	name := c.Param("name")

	var req dto.InvokeToolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	invokeResponse, err := h.toolService.InvokeTool(c.Request().Context(), name, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Tool not found"})
		}
		if errors.Is(err, service.ErrToolDisabled) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Tool is disabled"})
		}
		h.logger.Error("Failed to invoke tool", logger.ErrorField(err), logger.StringField("name", name))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to invoke tool"})
	}

	return c.JSON(http.StatusAccepted, invokeResponse)
}
