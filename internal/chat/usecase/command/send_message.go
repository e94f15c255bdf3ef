package command

import (
	"context"
	"strings"

	"github.com/tair/allergy-scan/internal/chat/assistant"
	"github.com/tair/allergy-scan/internal/chat/domain"
	"github.com/tair/allergy-scan/internal/chat/gate"
	"github.com/tair/allergy-scan/internal/chat/store"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// SendMessageCommand represents one user turn
type SendMessageCommand struct {
	Text string
}

// SendMessageResult is the turn as appended to the transcript
type SendMessageResult struct {
	Topic   domain.Topic       `json:"topic"`
	Message domain.ChatMessage `json:"message"`
	Reply   domain.ChatMessage `json:"reply"`
}

// SendMessageHandler handles send message command
type SendMessageHandler struct {
	session   *store.Session
	assistant assistant.Assistant
}

// NewSendMessageHandler creates a new send message handler
func NewSendMessageHandler(session *store.Session, a assistant.Assistant) *SendMessageHandler {
	return &SendMessageHandler{session: session, assistant: a}
}

// Handle runs one turn. Only blank input and a turn already in flight are
// errors; assistant failures become canned replies.
func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*SendMessageResult, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	msg, err := h.session.Begin(cmd.Text)
	if err != nil {
		return nil, err
	}

	topic := gate.Classify(cmd.Text)
	reply, outcome := h.reply(ctx, topic, cmd.Text)
	metrics.ChatTurns.WithLabelValues(string(topic), string(outcome)).Inc()

	return &SendMessageResult{
		Topic:   topic,
		Message: msg,
		Reply:   h.session.Finish(reply, outcome),
	}, nil
}

func (h *SendMessageHandler) reply(ctx context.Context, topic domain.Topic, text string) (string, domain.TurnState) {
	switch topic {
	case domain.TopicGreeting:
		return domain.GreetingReply, domain.StateResponded
	case domain.TopicOutOfDomain:
		return domain.OffTopicReply, domain.StateResponded
	}

	answer, err := h.assistant.Ask(ctx, domain.Prompt(text))
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Assistant call failed")
		return domain.FailureText, domain.StateFailed
	}
	if answer == "" {
		return domain.EmptyAnswerText, domain.StateResponded
	}
	return answer, domain.StateResponded
}
