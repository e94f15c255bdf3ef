package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tair/allergy-scan/pkg/auth"
)

func TestMemoryWindowSlides(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	mw := NewMemoryWindow(2, time.Minute)
	mw.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		d, _ := mw.Allow(ctx, "ip:1.2.3.4")
		if d.Allowed != want {
			t.Fatalf("request %d allowed = %v, want %v", i, d.Allowed, want)
		}
	}

	if d, _ := mw.Allow(ctx, "ip:5.6.7.8"); !d.Allowed || d.Remaining != 1 {
		t.Fatalf("other identifier = %+v, want allowed with 1 remaining", d)
	}

	now = now.Add(61 * time.Second)
	if d, _ := mw.Allow(ctx, "ip:1.2.3.4"); !d.Allowed {
		t.Fatal("expected the window to have slid past old requests")
	}
}

type failingWindow struct{}

func (failingWindow) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("redis down")
}

func TestLimiterWrap(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	tests := []struct {
		name    string
		limiter *Limiter
		calls   int
		want    int
	}{
		{name: "nil limiter passes", limiter: nil, calls: 5, want: http.StatusOK},
		{name: "under limit", limiter: NewLimiter(NewMemoryWindow(3, time.Minute), "chat"), calls: 3, want: http.StatusOK},
		{name: "over limit", limiter: NewLimiter(NewMemoryWindow(3, time.Minute), "chat"), calls: 4, want: http.StatusTooManyRequests},
		{name: "window error fails open", limiter: NewLimiter(failingWindow{}, "chat"), calls: 2, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.limiter.Wrap(ok)
			var rec *httptest.ResponseRecorder
			for i := 0; i < tt.calls; i++ {
				rec = httptest.NewRecorder()
				h(rec, httptest.NewRequest(http.MethodPost, "/api/chat/messages", nil))
			}
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
				t.Fatal("expected Retry-After header")
			}
		})
	}
}

func TestIdentifier(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	if got := Identifier(r); got != "ip:10.0.0.7" {
		t.Fatalf("Identifier() = %q", got)
	}

	r = r.WithContext(context.WithValue(r.Context(), auth.TokenIDKey, "abc"))
	if got := Identifier(r); got != "token:abc" {
		t.Fatalf("Identifier() = %q, want token:abc", got)
	}
}
