package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"toolwatch/internal/entity"
	"toolwatch/internal/runner/repository"
	"toolwatch/internal/runner/security"
	"toolwatch/internal/runner/strategy"
	"toolwatch/pkg/common"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/telegram"
	"toolwatch/pkg/utils"
)

// RunnerService consumes invocation tasks and records their outcomes.
type RunnerService interface {
	ProcessTask(ctx context.Context)
}

// RunnerServiceOptions tune task execution.
type RunnerServiceOptions struct {
	DefaultToolTimeout time.Duration
	NotifyOnBlock      bool
	NotifyOnFailure    bool
}

// NewRunnerService creates a new RunnerService.
func NewRunnerService(
	redisClient *redis.Client,
	toolRepo repository.ToolRepository,
	recordRepo repository.ExecutionRecordRepository,
	guardrail *security.Guardrail,
	notifier telegram.Notifier,
	log *logger.Logger,
	strategies []strategy.ToolExecutionStrategy,
	opts RunnerServiceOptions,
) RunnerService {
	strategyMap := make(map[entity.ToolType]strategy.ToolExecutionStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}
	if opts.DefaultToolTimeout <= 0 {
		opts.DefaultToolTimeout = 60 * time.Second
	}

	return &runnerService{
		redisClient: redisClient,
		toolRepo:    toolRepo,
		recordRepo:  recordRepo,
		guardrail:   guardrail,
		notifier:    notifier,
		logger:      log,
		strategies:  strategyMap,
		opts:        opts,
	}
}

type runnerService struct {
	redisClient *redis.Client
	toolRepo    repository.ToolRepository
	recordRepo  repository.ExecutionRecordRepository
	guardrail   *security.Guardrail
	notifier    telegram.Notifier
	logger      *logger.Logger
	strategies  map[entity.ToolType]strategy.ToolExecutionStrategy
	opts        RunnerServiceOptions
}

// ProcessTask dequeues and executes a single invocation task.
func (s *runnerService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamToolInvocation, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block for 2 seconds to allow graceful shutdown
		NoAck:    true,
	}).Result()

	if err != nil {
		// Ignore context cancellation and timeout errors, as they are expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	// The task data is expected to be a JSON string in the 'payload' field.
	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var task entity.InvocationTask
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		s.logger.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.logger.Info("Processing invocation", logger.Field("task_id", task.TaskID), logger.Field("tool", task.ToolName))
	s.executeAndRecord(ctx, &task)
}

// executeAndRecord resolves the tool, screens the command, runs the
// strategy and persists exactly one execution record. Execution failures
// end up in the record, never as a dropped task.
func (s *runnerService) executeAndRecord(ctx context.Context, task *entity.InvocationTask) {
	executedAt := time.Now().UTC()
	record := &entity.ExecutionRecord{
		TaskID:     task.TaskID,
		ToolName:   task.ToolName,
		ExecutedAt: &executedAt,
	}
	if len(task.Arguments) > 0 {
		if raw, err := json.Marshal(task.Arguments); err == nil {
			record.Arguments = datatypes.JSON(raw)
		}
	}

	tool, err := s.toolRepo.FindByName(ctx, task.ToolName)
	if err != nil {
		s.logger.Error("Failed to find tool", logger.ErrorField(err), logger.Field("tool", task.ToolName))
		record.Stderr = utils.ToPointer(fmt.Sprintf("tool %q not found", task.ToolName))
		s.persist(ctx, record)
		return
	}
	record.Command = tool.Command

	// A task can be queued before its tool is disabled.
	if !tool.Enabled {
		s.logger.Warn("Skipping disabled tool", logger.Field("tool", tool.Name), logger.Field("task_id", task.TaskID))
		record.Stderr = utils.ToPointer(fmt.Sprintf("tool %q is disabled", tool.Name))
		s.persist(ctx, record)
		return
	}

	executionStrategy, ok := s.strategies[tool.Type]
	if !ok {
		err := fmt.Errorf("no execution strategy for tool type: %s", tool.Type)
		s.logger.Error("Tool execution failed", logger.ErrorField(err), logger.Field("tool", tool.Name))
		record.Stderr = utils.ToPointer(err.Error())
		s.persist(ctx, record)
		return
	}

	if tool.Type == entity.ToolTypeCommand {
		command := strategy.RenderCommand(tool.Command, task.Arguments)
		record.Command = command
		if verdict := s.guardrail.Check(command); !verdict.Passed {
			s.logger.Warn("Command blocked by guardrail",
				logger.Field("tool", tool.Name),
				logger.Field("pattern", verdict.Matched),
				logger.Field("reason", verdict.Reason))
			record.SecurityCheckPassed = utils.ToPointer(false)
			record.Stderr = utils.ToPointer("command blocked: " + verdict.Reason)
			s.persist(ctx, record)
			s.notifyBlocked(tool.Name, command, verdict.Reason, executedAt)
			return
		}
		record.SecurityCheckPassed = utils.ToPointer(true)
	}

	timeout := s.opts.DefaultToolTimeout
	if tool.Timeout > 0 {
		timeout = time.Duration(tool.Timeout) * time.Second
	}
	executionCtx, cancelExec := context.WithTimeout(ctx, timeout)
	defer cancelExec()

	outcome, err := executionStrategy.Execute(executionCtx, tool, task)
	if err != nil {
		s.logger.Error("Tool execution failed", logger.ErrorField(err), logger.Field("tool", tool.Name), logger.Field("task_id", task.TaskID))
		record.Stderr = utils.ToPointer(err.Error())
		s.persist(ctx, record)
		return
	}

	record.Command = outcome.Command
	record.Success = outcome.ReturnCode == 0
	record.ReturnCode = utils.ToPointer(outcome.ReturnCode)
	record.ExecutionTime = utils.ToPointer(outcome.ExecutionTime)
	if outcome.Stdout != "" {
		record.Stdout = utils.ToPointer(outcome.Stdout)
	}
	if outcome.Stderr != "" {
		record.Stderr = utils.ToPointer(outcome.Stderr)
	}

	s.logger.Info("Tool execution completed",
		logger.Field("tool", tool.Name),
		logger.Field("task_id", task.TaskID),
		logger.Field("success", record.Success),
		logger.Field("return_code", outcome.ReturnCode))
	s.persist(ctx, record)

	if !record.Success {
		s.notifyFailed(tool.Name, outcome.Command, outcome.Stderr, outcome.ReturnCode, executedAt)
	}
}

// persist writes the record with the parent context so a timed-out
// execution can still be recorded.
func (s *runnerService) persist(ctx context.Context, record *entity.ExecutionRecord) {
	if err := s.recordRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to store execution record", logger.ErrorField(err), logger.Field("task_id", record.TaskID))
	}
}

func (s *runnerService) notifyBlocked(toolName, command, reason string, at time.Time) {
	if s.notifier == nil || !s.opts.NotifyOnBlock {
		return
	}
	utils.GoSafe(func() {
		if err := s.notifier.SendMessage(telegram.FormatSecurityBlockMessage(toolName, command, reason, at)); err != nil {
			s.logger.Error("Failed to send security block notification", logger.ErrorField(err))
		}
	})
}

func (s *runnerService) notifyFailed(toolName, command, stderr string, returnCode int, at time.Time) {
	if s.notifier == nil || !s.opts.NotifyOnFailure {
		return
	}
	utils.GoSafe(func() {
		if err := s.notifier.SendMessage(telegram.FormatExecutionFailureMessage(toolName, command, stderr, returnCode, at)); err != nil {
			s.logger.Error("Failed to send execution failure notification", logger.ErrorField(err))
		}
	})
}
