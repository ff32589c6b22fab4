package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nicheshunter/nicheshunter/adapters/llm"
	"github.com/nicheshunter/nicheshunter/ports"
)

func TestValidate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/validate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(ports.ValidationResult{
			Idea: "meal planner for dogs",
			Verdicts: []ports.StepVerdict{
				{Step: "market_demand", Score: 78, Summary: "Strong search volume."},
				{Step: "competition_scan", Score: 64, Summary: "Two weak incumbents."},
			},
			Overall: 71,
		})
	}))
	defer srv.Close()

	v := llm.NewValidator(llm.Config{BaseURL: srv.URL, APIKey: "key-123"})

	result, err := v.Validate(context.Background(), "meal planner for dogs", []string{"market_demand", "competition_scan"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Overall != 71 {
		t.Errorf("Overall = %d, want 71", result.Overall)
	}
	if len(result.Verdicts) != 2 {
		t.Fatalf("got %d verdicts, want 2", len(result.Verdicts))
	}
	if result.Verdicts[0].Step != "market_demand" {
		t.Errorf("first step = %q", result.Verdicts[0].Step)
	}

	if gotAuth != "Bearer key-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["idea"] != "meal planner for dogs" {
		t.Errorf("request idea = %v", gotBody["idea"])
	}
}

func TestValidateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := llm.NewValidator(llm.Config{BaseURL: srv.URL})

	if _, err := v.Validate(context.Background(), "idea", nil); err == nil {
		t.Error("expected error on 503")
	}
}

func TestValidateContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and
		// cancels r.Context() when the client disconnects.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	v := llm.NewValidator(llm.Config{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := v.Validate(ctx, "idea", nil); err == nil {
		t.Error("expected error on canceled context")
	}
}

func TestValidateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	v := llm.NewValidator(llm.Config{BaseURL: srv.URL})

	if _, err := v.Validate(context.Background(), "idea", nil); err == nil {
		t.Error("expected decode error")
	}
}
