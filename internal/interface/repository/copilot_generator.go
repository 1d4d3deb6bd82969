package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"jetlag-advisor/internal/domain/entity"
	"jetlag-advisor/internal/domain/repository"
	"jetlag-advisor/pkg/logger"

	sdk "github.com/github/copilot-sdk/go"
)

const (
	// DefaultGenerationTimeout bounds a single generation call.
	DefaultGenerationTimeout = 90 * time.Second

	submitRecommendationsTool = "submit_recommendations"
)

// CopilotGenerator runs each generation in its own Copilot SDK session.
type CopilotGenerator struct {
	client  *sdk.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// NewCopilotGenerator creates a generator using an already started Copilot client.
func NewCopilotGenerator(client *sdk.Client, model string, timeout time.Duration, logger logger.Logger) repository.Generator {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &CopilotGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// sessionWaiter collects the terminal signals of one session.
type sessionWaiter struct {
	mu       sync.Mutex
	message  string
	idle     chan struct{}
	idleOnce sync.Once
	errCh    chan error
}

func newSessionWaiter() *sessionWaiter {
	return &sessionWaiter{
		idle:  make(chan struct{}),
		errCh: make(chan error, 1),
	}
}

func (w *sessionWaiter) handle(event sdk.SessionEvent) {
	switch event.Type {
	case "assistant.message":
		if event.Data.Content != nil {
			w.mu.Lock()
			w.message = *event.Data.Content
			w.mu.Unlock()
		}
	case "session.idle":
		w.idleOnce.Do(func() { close(w.idle) })
	case "session.error":
		msg := "session error"
		if event.Data.Content != nil {
			msg = *event.Data.Content
		}
		select {
		case w.errCh <- errors.New(msg):
		default:
		}
	}
}

func (w *sessionWaiter) lastMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// wait blocks until the session goes idle, fails, times out, or ctx is done.
func (w *sessionWaiter) wait(ctx context.Context, timeout time.Duration, captured <-chan struct{}) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-w.errCh:
		return err
	case <-timer.C:
		return fmt.Errorf("generation timed out after %v", timeout)
	case <-captured:
		return nil
	case <-w.idle:
		return nil
	}
}

// Complete returns the final assistant message as free text.
func (g *CopilotGenerator) Complete(ctx context.Context, req entity.GenerationRequest) (string, error) {
	const op = "complete"
	start := time.Now()
	g.logger.Debug("Starting generation", "agent", req.Agent.Role, "model", g.model)

	session, err := g.client.CreateSession(&sdk.SessionConfig{
		Model:         g.model,
		SystemMessage: systemMessage(req.Agent, ""),
	})
	if err != nil {
		return "", entity.NewGenerationError(op, fmt.Errorf("failed to create session: %w", err))
	}
	defer session.Destroy()

	waiter := newSessionWaiter()
	session.On(waiter.handle)

	if _, err := session.Send(sdk.MessageOptions{Prompt: req.Prompt}); err != nil {
		return "", entity.NewGenerationError(op, fmt.Errorf("failed to send message: %w", err))
	}
	if err := waiter.wait(ctx, g.timeout, nil); err != nil {
		return "", entity.NewGenerationError(op, err)
	}

	text := strings.TrimSpace(waiter.lastMessage())
	if text == "" {
		return "", entity.NewGenerationError(op, errors.New("empty response"))
	}

	g.logger.Debug("Generation completed", "agent", req.Agent.Role, "duration", time.Since(start), "chars", len(text))
	return text, nil
}

// CompleteRecommendation constrains the output to the RecommendationResult schema by asking the
// model to call a typed tool. Nothing captured means the model could not conform.
func (g *CopilotGenerator) CompleteRecommendation(ctx context.Context, req entity.GenerationRequest) (*entity.RecommendationResult, error) {
	const op = "complete recommendation"

	var (
		result   *entity.RecommendationResult
		resultMu sync.Mutex
		captured = make(chan struct{})
		once     sync.Once
	)

	tool := sdk.DefineTool(submitRecommendationsTool,
		"Submit the final personalized health recommendations. Call exactly once with every section filled in.",
		func(params entity.RecommendationResult, inv sdk.ToolInvocation) (any, error) {
			resultMu.Lock()
			r := params
			result = &r
			resultMu.Unlock()
			once.Do(func() { close(captured) })
			return map[string]string{"status": "accepted"}, nil
		})

	session, err := g.client.CreateSession(&sdk.SessionConfig{
		Model:         g.model,
		Tools:         []sdk.Tool{tool},
		SystemMessage: systemMessage(req.Agent, submitRecommendationsTool),
	})
	if err != nil {
		return nil, entity.NewGenerationError(op, fmt.Errorf("failed to create session: %w", err))
	}
	defer session.Destroy()

	waiter := newSessionWaiter()
	session.On(waiter.handle)

	if _, err := session.Send(sdk.MessageOptions{Prompt: req.Prompt}); err != nil {
		return nil, entity.NewGenerationError(op, fmt.Errorf("failed to send message: %w", err))
	}
	if err := waiter.wait(ctx, g.timeout, captured); err != nil {
		return nil, entity.NewGenerationError(op, err)
	}

	resultMu.Lock()
	defer resultMu.Unlock()
	if result == nil {
		return nil, entity.NewSchemaValidationError(op, fmt.Errorf("model did not call %s", submitRecommendationsTool))
	}
	if err := result.Validate(); err != nil {
		return nil, entity.NewSchemaValidationError(op, err)
	}
	return result, nil
}

func systemMessage(agent entity.AgentDefinition, tool string) *sdk.SystemMessageConfig {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the %s.\n", agent.Role)
	if agent.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", agent.Goal)
	}
	if agent.Backstory != "" {
		fmt.Fprintf(&b, "Background: %s\n", agent.Backstory)
	}
	if tool != "" {
		fmt.Fprintf(&b, "\nWhen your answer is ready, call the %s tool with the complete result. Do not answer in plain text.", tool)
	}
	return &sdk.SystemMessageConfig{
		Mode:    "replace",
		Content: b.String(),
	}
}
