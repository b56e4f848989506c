// Package agent answers free-text questions about the salon and keeps
// the conversation history per session.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/history"
)

// Runner produces one assistant reply given the prior conversation.
type Runner interface {
	Run(ctx context.Context, past []history.Message, input string) (string, error)
}

type Service struct {
	runner Runner
	store  history.Store
	log    *zap.Logger
	now    func() time.Time
}

func NewService(runner Runner, store history.Store, log *zap.Logger) *Service {
	return &Service{
		runner: runner,
		store:  store,
		log:    log.Named("agent"),
		now:    time.Now,
	}
}

var ErrEmptyInput = errors.New("empty input")

// Run loads the session history, asks the runner and appends both the
// user turn and the reply. History is only written on success.
func (s *Service) Run(ctx context.Context, sessionID, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}

	past, err := s.store.LoadOrCreate(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	asked := s.now().UTC()
	answer, err := s.runner.Run(ctx, past, input)
	if err != nil {
		return "", fmt.Errorf("agent run: %w", err)
	}

	if err := s.store.Append(ctx, sessionID,
		history.Message{Role: history.RoleUser, Content: input, CreatedAt: asked},
		history.Message{Role: history.RoleAssistant, Content: answer, CreatedAt: s.now().UTC()},
	); err != nil {
		// the answer is still useful to the caller
		s.log.Warn("history append failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	return answer, nil
}
