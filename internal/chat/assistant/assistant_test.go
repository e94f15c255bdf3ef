package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel implements llms.Model
type fakeModel struct {
	answer string
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, m := range messages {
		for _, p := range m.Parts {
			if tp, ok := p.(llms.TextContent); ok {
				f.prompt = tp.Text
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.answer}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangChainAsk(t *testing.T) {
	model := &fakeModel{answer: "  Peanuts are legumes.\n"}
	a := newLangChain(model, "test")

	got, err := a.Ask(context.Background(), "are peanuts nuts?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got != "Peanuts are legumes." {
		t.Fatalf("Ask() = %q", got)
	}
	if model.prompt != "are peanuts nuts?" {
		t.Fatalf("model saw %q", model.prompt)
	}
}

func TestLangChainAskError(t *testing.T) {
	a := newLangChain(&fakeModel{err: errors.New("rate limited")}, "test")
	if _, err := a.Ask(context.Background(), "q"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewLangChainRequiresKey(t *testing.T) {
	if _, err := NewLangChain(Config{BaseURL: "http://localhost"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if _, err := (Unavailable{}).Ask(context.Background(), "q"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Unavailable.Ask() err = %v", err)
	}
}
