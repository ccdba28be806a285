package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"toolwatch/internal/api/dto"
	"toolwatch/internal/api/repository"
	"toolwatch/internal/entity"
	"toolwatch/pkg/common"
	"toolwatch/pkg/logger"
)

// ErrToolDisabled is returned when an invocation targets a disabled tool.
var ErrToolDisabled = errors.New("tool is disabled")

// ErrInvalidToolType is returned when a request carries an unknown tool type.
var ErrInvalidToolType = errors.New("invalid tool type")

// ToolService defines the interface for the tool registry and invocation
// queueing.
type ToolService interface {
	CreateTool(ctx context.Context, req *dto.CreateToolRequest) (*dto.ToolResponse, error)
	UpdateTool(ctx context.Context, name string, req *dto.UpdateToolRequest) (*dto.ToolResponse, error)
	GetToolByName(ctx context.Context, name string) (*dto.ToolResponse, error)
	GetAllTools(ctx context.Context) ([]*dto.ToolResponse, error)
	DeleteTool(ctx context.Context, name string) error
	InvokeTool(ctx context.Context, name string, req *dto.InvokeToolRequest) (*dto.InvokeToolResponse, error)
}

// NewToolService creates a new tool service.
func NewToolService(toolRepo repository.ToolRepository, redisClient *redis.Client, logger *logger.Logger, streamMaxLen int64) ToolService {
	return &toolService{
		toolRepo:     toolRepo,
		redisClient:  redisClient,
		logger:       logger,
		streamMaxLen: streamMaxLen,
	}
}

type toolService struct {
	toolRepo     repository.ToolRepository
	redisClient  *redis.Client
	logger       *logger.Logger
	streamMaxLen int64
}

// CreateTool registers a new tool.
func (s *toolService) CreateTool(ctx context.Context, req *dto.CreateToolRequest) (*dto.ToolResponse, error) {
	toolType, err := parseToolType(req.Type)
	if err != nil {
		return nil, err
	}

	tool := &entity.Tool{
		Name:        req.Name,
		Description: req.Description,
		Type:        toolType,
		Command:     req.Command,
		Timeout:     req.Timeout,
		Enabled:     true,
	}
	if req.Enabled != nil {
		tool.Enabled = *req.Enabled
	}
	if len(req.Payload) > 0 {
		tool.Payload = datatypes.JSON(req.Payload)
	}

	if err := s.toolRepo.Create(ctx, tool); err != nil {
		s.logger.Error("Failed to create tool", logger.ErrorField(err), logger.StringField("name", req.Name))
		return nil, err
	}

	return mapToToolResponse(tool), nil
}

// UpdateTool saves changes to a registered tool.
func (s *toolService) UpdateTool(ctx context.Context, name string, req *dto.UpdateToolRequest) (*dto.ToolResponse, error) {
	tool, err := s.toolRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if req.Type != "" {
		toolType, err := parseToolType(req.Type)
		if err != nil {
			return nil, err
		}
		tool.Type = toolType
	}
	tool.Description = req.Description
	tool.Command = req.Command
	tool.Timeout = req.Timeout
	if req.Enabled != nil {
		tool.Enabled = *req.Enabled
	}
	if len(req.Payload) > 0 {
		tool.Payload = datatypes.JSON(req.Payload)
	}

	if err := s.toolRepo.Update(ctx, tool); err != nil {
		s.logger.Error("Failed to update tool", logger.ErrorField(err), logger.StringField("name", name))
		return nil, err
	}

	return mapToToolResponse(tool), nil
}

// GetToolByName retrieves a tool by its unique name.
func (s *toolService) GetToolByName(ctx context.Context, name string) (*dto.ToolResponse, error) {
	tool, err := s.toolRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return mapToToolResponse(tool), nil
}

// GetAllTools retrieves every registered tool.
func (s *toolService) GetAllTools(ctx context.Context) ([]*dto.ToolResponse, error) {
	tools, err := s.toolRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get all tools", logger.ErrorField(err))
		return nil, err
	}

	var toolResponses []*dto.ToolResponse
	for i := range tools {
		toolResponses = append(toolResponses, mapToToolResponse(&tools[i]))
	}
	return toolResponses, nil
}

// DeleteTool removes a tool from the registry.
func (s *toolService) DeleteTool(ctx context.Context, name string) error {
	if _, err := s.toolRepo.FindByName(ctx, name); err != nil {
		return err
	}
	return s.toolRepo.Delete(ctx, name)
}

// InvokeTool queues one invocation of a registered tool on the runner
// stream and acknowledges it with the task ID.
func (s *toolService) InvokeTool(ctx context.Context, name string, req *dto.InvokeToolRequest) (*dto.InvokeToolResponse, error) {
	tool, err := s.toolRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !tool.Enabled {
		return nil, ErrToolDisabled
	}

	task := entity.InvocationTask{
		TaskID:      uuid.NewString(),
		ToolName:    tool.Name,
		Arguments:   req.Arguments,
		RequestedAt: time.Now().UTC(),
	}
	taskPayload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamToolInvocation,
		Values: map[string]interface{}{"payload": taskPayload},
		MaxLen: s.streamMaxLen,
	}).Err(); err != nil {
		s.logger.Error("Failed to enqueue invocation", logger.ErrorField(err), logger.StringField("task_id", task.TaskID))
		return nil, err
	}

	s.logger.Info("Invocation queued",
		logger.StringField("task_id", task.TaskID),
		logger.StringField("tool_name", tool.Name),
	)

	return &dto.InvokeToolResponse{TaskID: task.TaskID, Status: "queued"}, nil
}

func parseToolType(value string) (entity.ToolType, error) {
	switch entity.ToolType(value) {
	case entity.ToolTypeCommand, entity.ToolTypeHTTP:
		return entity.ToolType(value), nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidToolType, value)
}

// mapToToolResponse maps an entity.Tool to its wire form.
func mapToToolResponse(tool *entity.Tool) *dto.ToolResponse {
	resp := &dto.ToolResponse{
		ID:          tool.ID,
		Name:        tool.Name,
		Description: tool.Description,
		Type:        string(tool.Type),
		Command:     tool.Command,
		Timeout:     tool.Timeout,
		Enabled:     tool.Enabled,
		CreatedAt:   tool.CreatedAt,
		UpdatedAt:   tool.UpdatedAt,
	}
	if len(tool.Payload) > 0 {
		resp.Payload = json.RawMessage(tool.Payload)
	}
	return resp
}
