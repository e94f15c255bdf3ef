package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func ok(context.Context) error   { return nil }
func fail(context.Context) error { return errors.New("down") }

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Checker)
		want  string
	}{
		{"all healthy", func(c *Checker) {
			c.Register("state", true, ok)
			c.Register("cache", false, ok)
		}, StatusHealthy},
		{"optional down", func(c *Checker) {
			c.Register("state", true, ok)
			c.Register("product_api", false, fail)
		}, StatusDegraded},
		{"critical down", func(c *Checker) {
			c.Register("state", true, fail)
			c.Register("cache", false, ok)
		}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("allergyscan")
			tt.setup(c)
			if got := c.CheckAll(context.Background()).Status; got != tt.want {
				t.Fatalf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHandleMirrorsToGRPC(t *testing.T) {
	c := NewChecker("allergyscan")
	c.Register("state", true, fail)
	router := mux.NewRouter()
	c.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	var report Report
	json.NewDecoder(rec.Body).Decode(&report)
	if report.Components["state"].Error != "down" {
		t.Fatalf("report %+v", report)
	}

	resp, err := c.GRPCServer().Check(context.Background(), &healthpb.HealthCheckRequest{Service: "allergyscan"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("grpc status = %s", resp.Status)
	}
}

func TestLoggingInterceptorPassesThrough(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	boom := errors.New("boom")

	resp, err := LoggingInterceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("LoggingInterceptor() = %v, %v", resp, err)
	}

	_, err = LoggingInterceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
}
