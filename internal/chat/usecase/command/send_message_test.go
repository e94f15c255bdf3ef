package command

import (
	"context"
	"errors"
	"testing"

	"github.com/tair/allergy-scan/internal/chat/domain"
	"github.com/tair/allergy-scan/internal/chat/store"
)

type fakeAssistant struct {
	answer  string
	err     error
	prompts []string
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeAssistant) Ask(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	return f.answer, f.err
}

func TestCannedRepliesSkipAssistant(t *testing.T) {
	a := &fakeAssistant{}
	h := NewSendMessageHandler(store.NewSession(), a)

	res, err := h.Handle(context.Background(), SendMessageCommand{Text: "hello there"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if res.Topic != domain.TopicGreeting || res.Reply.Text != domain.GreetingReply {
		t.Fatalf("greeting turn %+v", res)
	}

	res, _ = h.Handle(context.Background(), SendMessageCommand{Text: "what shoes should I buy"})
	if res.Reply.Text != domain.OffTopicReply {
		t.Fatalf("off-topic reply %q", res.Reply.Text)
	}
	if len(a.prompts) != 0 {
		t.Fatalf("assistant called %d times", len(a.prompts))
	}
}

func TestInDomainUsesPreamble(t *testing.T) {
	a := &fakeAssistant{answer: "Check the label."}
	session := store.NewSession()
	h := NewSendMessageHandler(session, a)

	res, err := h.Handle(context.Background(), SendMessageCommand{Text: "does this have peanuts"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Reply.Text != "Check the label." || res.Reply.IsUser {
		t.Fatalf("reply %+v", res.Reply)
	}
	if len(a.prompts) != 1 || a.prompts[0] != domain.Preamble+"does this have peanuts" {
		t.Fatalf("prompts %q", a.prompts)
	}
	// welcome + user + reply
	if n := len(session.Messages()); n != 3 {
		t.Fatalf("transcript has %d messages", n)
	}
	if session.State() != domain.StateIdle {
		t.Fatalf("state %s", session.State())
	}
}

func TestAssistantFailureBecomesApology(t *testing.T) {
	session := store.NewSession()
	var seen []domain.TurnState
	session.Subscribe(func(s domain.TurnState) { seen = append(seen, s) })

	h := NewSendMessageHandler(session, &fakeAssistant{err: errors.New("timeout")})
	res, err := h.Handle(context.Background(), SendMessageCommand{Text: "milk allergy symptoms"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if res.Reply.Text != domain.FailureText {
		t.Fatalf("reply %q", res.Reply.Text)
	}
	want := []domain.TurnState{domain.StateSending, domain.StateFailed, domain.StateIdle}
	if len(seen) != len(want) {
		t.Fatalf("transitions %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transitions %v, want %v", seen, want)
		}
	}
}

func TestEmptyAnswerFallback(t *testing.T) {
	h := NewSendMessageHandler(store.NewSession(), &fakeAssistant{})
	res, _ := h.Handle(context.Background(), SendMessageCommand{Text: "is soy safe"})
	if res.Reply.Text != domain.EmptyAnswerText {
		t.Fatalf("reply %q", res.Reply.Text)
	}
}

func TestBlankInputRejected(t *testing.T) {
	session := store.NewSession()
	h := NewSendMessageHandler(session, &fakeAssistant{})
	if _, err := h.Handle(context.Background(), SendMessageCommand{Text: "   "}); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("err = %v", err)
	}
	if n := len(session.Messages()); n != 1 {
		t.Fatalf("blank input appended, transcript has %d", n)
	}
}

func TestOneTurnInFlight(t *testing.T) {
	a := &fakeAssistant{answer: "ok", block: make(chan struct{}), entered: make(chan struct{})}
	h := NewSendMessageHandler(store.NewSession(), a)

	done := make(chan error, 1)
	go func() {
		_, err := h.Handle(context.Background(), SendMessageCommand{Text: "peanut reaction"})
		done <- err
	}()
	<-a.entered

	if _, err := h.Handle(context.Background(), SendMessageCommand{Text: "hello"}); !errors.Is(err, domain.ErrTurnInFlight) {
		t.Fatalf("second send err = %v, want ErrTurnInFlight", err)
	}

	close(a.block)
	if err := <-done; err != nil {
		t.Fatalf("first turn error = %v", err)
	}
	if _, err := h.Handle(context.Background(), SendMessageCommand{Text: "hello"}); err != nil {
		t.Fatalf("send after idle error = %v", err)
	}
}
