// file: services/classifier_service_test.go
package services

import (
	"NovaCTF/models"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		suspicious bool
		wantErr    bool
	}{
		{"plain suspicious", `{"verdict":"suspicious","rationale":"too fast"}`, true, false},
		{"plain normal", `{"verdict":"normal","rationale":"looks human"}`, false, false},
		{"fenced json", "```json\n{\"verdict\":\"suspicious\",\"rationale\":\"burst\"}\n```", true, false},
		{"unknown verdict", `{"verdict":"maybe","rationale":"?"}`, false, true},
		{"not json", "definitely suspicious!", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := parseVerdict(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", j)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVerdict: %v", err)
			}
			if j.Suspicious != tt.suspicious {
				t.Fatalf("suspicious = %v, want %v", j.Suspicious, tt.suspicious)
			}
		})
	}
}

func TestLLMClassifierClassify(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("messages = %d, want system+user", len(req.Messages))
		}
		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: `{"verdict":"suspicious","rationale":"burst of incorrect attempts"}`}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cls := &LLMClassifier{
		URL:    srv.URL,
		APIKey: "test-key",
		Model:  "test-model",
		Client: &http.Client{Timeout: 5 * time.Second},
	}

	triggers := []RuleTrigger{{
		Type:     models.AlertTypeBruteforce,
		Severity: models.SeverityHigh,
		Evidence: Evidence{UserID: 1, ChallengeID: 2, SameChallenge: 7, Incorrect: 6, TotalSubmissions: 7},
	}}

	j, err := cls.Classify(context.Background(), triggers)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !j.Suspicious {
		t.Fatal("judgment not suspicious")
	}
	if j.Rationale == "" {
		t.Fatal("missing rationale")
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestLLMClassifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cls := &LLMClassifier{URL: srv.URL, Model: "m", Client: srv.Client()}
	if _, err := cls.Classify(context.Background(), nil); err == nil {
		t.Fatal("expected error on 503")
	}
}
