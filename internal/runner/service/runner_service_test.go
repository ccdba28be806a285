package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"toolwatch/internal/entity"
	"toolwatch/internal/runner/security"
	"toolwatch/internal/runner/strategy"
	"toolwatch/pkg/logger"
)

type fakeToolRepo struct {
	tools map[string]*entity.Tool
}

func (f *fakeToolRepo) FindByName(ctx context.Context, name string) (*entity.Tool, error) {
	if tool, ok := f.tools[name]; ok {
		return tool, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records []*entity.ExecutionRecord
}

func (f *fakeRecordRepo) Create(ctx context.Context, record *entity.ExecutionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecordRepo) last(t *testing.T) *entity.ExecutionRecord {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.records, 1)
	return f.records[0]
}

type fakeStrategy struct {
	toolType entity.ToolType
	outcome  *strategy.Outcome
	err      error
	calls    int
	lastTask *entity.InvocationTask
}

func (f *fakeStrategy) Execute(ctx context.Context, tool *entity.Tool, task *entity.InvocationTask) (*strategy.Outcome, error) {
	f.calls++
	f.lastTask = task
	return f.outcome, f.err
}

func (f *fakeStrategy) GetType() entity.ToolType { return f.toolType }

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func newRunnerForTest(t *testing.T, tools map[string]*entity.Tool, fakes ...strategy.ToolExecutionStrategy) (*runnerService, *fakeRecordRepo, *fakeNotifier) {
	t.Helper()
	opts := RunnerServiceOptions{DefaultToolTimeout: time.Second, NotifyOnBlock: true}
	return newRunnerWithOptions(t, tools, opts, fakes...)
}

func newRunnerWithOptions(t *testing.T, tools map[string]*entity.Tool, opts RunnerServiceOptions, fakes ...strategy.ToolExecutionStrategy) (*runnerService, *fakeRecordRepo, *fakeNotifier) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	guardrail, err := security.NewGuardrail(nil)
	require.NoError(t, err)

	recordRepo := &fakeRecordRepo{}
	notifier := &fakeNotifier{}
	svc := NewRunnerService(
		nil,
		&fakeToolRepo{tools: tools},
		recordRepo,
		guardrail,
		notifier,
		log,
		fakes,
		opts,
	)
	return svc.(*runnerService), recordRepo, notifier
}

func TestExecuteAndRecordSuccess(t *testing.T) {
	lint := &entity.Tool{Name: "lint", Type: entity.ToolTypeCommand, Command: "golangci-lint run", Enabled: true}
	commandStrategy := &fakeStrategy{
		toolType: entity.ToolTypeCommand,
		outcome:  &strategy.Outcome{Command: "golangci-lint run ./...", Stdout: "0 issues", ReturnCode: 0, ExecutionTime: 1.2},
	}
	svc, recordRepo, _ := newRunnerForTest(t, map[string]*entity.Tool{"lint": lint}, commandStrategy)

	task := &entity.InvocationTask{TaskID: "task-1", ToolName: "lint", Arguments: []string{"./..."}}
	svc.executeAndRecord(context.Background(), task)

	record := recordRepo.last(t)
	assert.Equal(t, "task-1", record.TaskID)
	assert.Equal(t, "lint", record.ToolName)
	assert.Equal(t, "golangci-lint run ./...", record.Command)
	assert.True(t, record.Success)
	require.NotNil(t, record.ReturnCode)
	assert.Equal(t, 0, *record.ReturnCode)
	require.NotNil(t, record.ExecutionTime)
	assert.InDelta(t, 1.2, *record.ExecutionTime, 1e-9)
	require.NotNil(t, record.Stdout)
	assert.Equal(t, "0 issues", *record.Stdout)
	assert.Nil(t, record.Stderr)
	require.NotNil(t, record.SecurityCheckPassed)
	assert.True(t, *record.SecurityCheckPassed)
	require.NotNil(t, record.ExecutedAt)
	assert.Equal(t, 1, commandStrategy.calls)
	require.NotNil(t, commandStrategy.lastTask)
	assert.Equal(t, []string{"./..."}, commandStrategy.lastTask.Arguments)
}

func TestExecuteAndRecordNonZeroExit(t *testing.T) {
	deploy := &entity.Tool{Name: "deploy", Type: entity.ToolTypeCommand, Command: "kubectl apply -f deploy.yaml", Enabled: true}
	commandStrategy := &fakeStrategy{
		toolType: entity.ToolTypeCommand,
		outcome:  &strategy.Outcome{Command: "kubectl apply -f deploy.yaml", Stderr: "connection refused", ReturnCode: 1, ExecutionTime: 3.4},
	}
	svc, recordRepo, _ := newRunnerForTest(t, map[string]*entity.Tool{"deploy": deploy}, commandStrategy)

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-2", ToolName: "deploy"})

	record := recordRepo.last(t)
	assert.False(t, record.Success)
	require.NotNil(t, record.ReturnCode)
	assert.Equal(t, 1, *record.ReturnCode)
	require.NotNil(t, record.Stderr)
	assert.Equal(t, "connection refused", *record.Stderr)
	assert.Nil(t, record.Stdout)
}

func TestExecuteAndRecordBlocksDangerousCommand(t *testing.T) {
	wipe := &entity.Tool{Name: "wipe", Type: entity.ToolTypeCommand, Command: "rm -rf /", Enabled: true}
	commandStrategy := &fakeStrategy{toolType: entity.ToolTypeCommand}
	svc, recordRepo, notifier := newRunnerForTest(t, map[string]*entity.Tool{"wipe": wipe}, commandStrategy)

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-3", ToolName: "wipe"})

	record := recordRepo.last(t)
	assert.False(t, record.Success)
	require.NotNil(t, record.SecurityCheckPassed)
	assert.False(t, *record.SecurityCheckPassed)
	require.NotNil(t, record.Stderr)
	assert.Contains(t, *record.Stderr, "command blocked")
	assert.Nil(t, record.ReturnCode)
	assert.Zero(t, commandStrategy.calls)

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestExecuteAndRecordUnknownTool(t *testing.T) {
	svc, recordRepo, _ := newRunnerForTest(t, map[string]*entity.Tool{})

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-4", ToolName: "ghost"})

	record := recordRepo.last(t)
	assert.False(t, record.Success)
	require.NotNil(t, record.Stderr)
	assert.Contains(t, *record.Stderr, "not found")
	assert.Nil(t, record.SecurityCheckPassed)
}

func TestExecuteAndRecordDisabledTool(t *testing.T) {
	paused := &entity.Tool{Name: "paused", Type: entity.ToolTypeCommand, Command: "echo hi", Enabled: false}
	commandStrategy := &fakeStrategy{toolType: entity.ToolTypeCommand}
	svc, recordRepo, _ := newRunnerForTest(t, map[string]*entity.Tool{"paused": paused}, commandStrategy)

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-5", ToolName: "paused"})

	record := recordRepo.last(t)
	assert.False(t, record.Success)
	require.NotNil(t, record.Stderr)
	assert.Contains(t, *record.Stderr, "disabled")
	assert.Zero(t, commandStrategy.calls)
}

func TestExecuteAndRecordStrategyError(t *testing.T) {
	slow := &entity.Tool{Name: "slow", Type: entity.ToolTypeCommand, Command: "sleep 10", Enabled: true}
	commandStrategy := &fakeStrategy{
		toolType: entity.ToolTypeCommand,
		err:      context.DeadlineExceeded,
	}
	svc, recordRepo, _ := newRunnerForTest(t, map[string]*entity.Tool{"slow": slow}, commandStrategy)

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-6", ToolName: "slow"})

	record := recordRepo.last(t)
	assert.False(t, record.Success)
	require.NotNil(t, record.Stderr)
	assert.Contains(t, *record.Stderr, "deadline exceeded")
	assert.Nil(t, record.ReturnCode)
	assert.Nil(t, record.ExecutionTime)
}

func TestExecuteAndRecordNotifiesOnFailure(t *testing.T) {
	deploy := &entity.Tool{Name: "deploy", Type: entity.ToolTypeCommand, Command: "kubectl apply -f deploy.yaml", Enabled: true}
	commandStrategy := &fakeStrategy{
		toolType: entity.ToolTypeCommand,
		outcome:  &strategy.Outcome{Command: "kubectl apply -f deploy.yaml", Stderr: "connection refused", ReturnCode: 1, ExecutionTime: 3.4},
	}
	opts := RunnerServiceOptions{DefaultToolTimeout: time.Second, NotifyOnFailure: true}
	svc, _, notifier := newRunnerWithOptions(t, map[string]*entity.Tool{"deploy": deploy}, opts, commandStrategy)

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-8", ToolName: "deploy"})

	assert.Eventually(t, func() bool { return notifier.count() == 1 }, time.Second, 10*time.Millisecond)
	notifier.mu.Lock()
	message := notifier.messages[0]
	notifier.mu.Unlock()
	assert.Contains(t, message, "deploy")
	assert.Contains(t, message, "connection refused")
}

func TestExecuteAndRecordMissingStrategy(t *testing.T) {
	hook := &entity.Tool{Name: "hook", Type: entity.ToolTypeHTTP, Enabled: true}
	svc, recordRepo, _ := newRunnerForTest(t, map[string]*entity.Tool{"hook": hook})

	svc.executeAndRecord(context.Background(), &entity.InvocationTask{TaskID: "task-7", ToolName: "hook"})

	record := recordRepo.last(t)
	assert.False(t, record.Success)
	require.NotNil(t, record.Stderr)
	assert.Contains(t, *record.Stderr, "no execution strategy")
}
