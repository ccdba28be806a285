package strategy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"toolwatch/internal/entity"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/utils"
)

// CommandStrategy executes shell command tools.
type CommandStrategy struct {
	logger *logger.Logger
	shell  string
}

// NewCommandStrategy creates a new CommandStrategy. An empty shell falls
// back to /bin/sh.
func NewCommandStrategy(log *logger.Logger, shell string) ToolExecutionStrategy {
	if shell == "" {
		shell = "/bin/sh"
	}
	return &CommandStrategy{logger: log, shell: shell}
}

// GetType returns the tool type this strategy handles.
func (s *CommandStrategy) GetType() entity.ToolType {
	return entity.ToolTypeCommand
}

// Execute runs the tool command through the shell and captures its output.
// A non-zero exit is not an error here: the exit code lands in the outcome
// so the caller can record it.
func (s *CommandStrategy) Execute(ctx context.Context, tool *entity.Tool, task *entity.InvocationTask) (*Outcome, error) {
	command := RenderCommand(tool.Command, task.Arguments)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start).Seconds()

	outcome := &Outcome{
		Command:       command,
		Stdout:        utils.CleanToValidUTF8(stdout.String()),
		Stderr:        utils.CleanToValidUTF8(stderr.String()),
		ExecutionTime: elapsed,
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("command timed out after %.2fs: %w", elapsed, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ReturnCode = exitErr.ExitCode()
			return outcome, nil
		}
		return nil, fmt.Errorf("failed to run command: %w", err)
	}

	return outcome, nil
}

// RenderCommand appends shell-quoted arguments to the configured command.
// The rendered string is both what the shell runs and what gets screened
// and recorded.
func RenderCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, command)
	for _, arg := range args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes arg so the shell treats it as one word.
func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$&|;<>()*?[]{}#~`!") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
