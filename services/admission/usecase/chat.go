package usecase

import (
	"context"
	"time"

	"spmb/config"
	"spmb/domain"
)

type chatUC struct {
	assistant domain.Assistant
	metrics   *config.Metrics
	TimeOut   time.Duration
}

func NewChatUseCase(assistant domain.Assistant, metrics *config.Metrics, timeOut time.Duration) domain.ChatUseCase {
	return &chatUC{
		assistant: assistant,
		metrics:   metrics,
		TimeOut:   timeOut,
	}
}

func (cUC *chatUC) Ask(ctx context.Context, req *domain.ChatRequest) string {
	ctx, cancel := context.WithTimeout(ctx, cUC.TimeOut)
	defer cancel()

	reply := cUC.assistant.Ask(ctx, req.History, req.Message)

	outcome := "answered"
	if reply == domain.ChatFallbackNoAPIKey || reply == domain.ChatFallbackError {
		outcome = "fallback"
	}
	cUC.metrics.ChatReplies.WithLabelValues(outcome).Inc()

	return reply
}
