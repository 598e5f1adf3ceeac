// file: services/classifier_service.go
package services

import (
	"NovaCTF/config"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LLMClassifier judges rule evidence through an OpenAI-compatible chat
// endpoint. It is advisory only: any failure here degrades to the raw rule
// trigger and must never reach the submitting user.
type LLMClassifier struct {
	URL    string
	APIKey string
	Model  string
	Client *http.Client
}

// NewLLMClassifierFromConfig returns nil when no endpoint is configured,
// which switches the monitor to pure rule-based judgment.
func NewLLMClassifierFromConfig() *LLMClassifier {
	if config.C.ClassifierURL == "" {
		return nil
	}
	return &LLMClassifier{
		URL:    strings.TrimRight(config.C.ClassifierURL, "/"),
		APIKey: config.C.ClassifierAPIKey,
		Model:  config.C.ClassifierModel,
		Client: &http.Client{Timeout: config.C.ClassifierTimeout},
	}
}

const classifierSystemPrompt = `You are a CTF platform security analyst. You receive aggregated evidence about one user's recent flag submissions that already tripped rate/brute-force rules. Decide whether the pattern looks like abusive automation or plausible honest play (e.g. a stuck player retrying variants of a guess). Respond with strict JSON only: {"verdict":"suspicious"|"normal","rationale":"<one sentence>"}`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (l *LLMClassifier) Classify(ctx context.Context, triggers []RuleTrigger) (Judgment, error) {
	prompt, err := buildClassifierPrompt(triggers)
	if err != nil {
		return Judgment{}, err
	}

	body, err := json.Marshal(chatRequest{
		Model: l.Model,
		Messages: []chatMessage{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0,
	})
	if err != nil {
		return Judgment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.URL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Judgment{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if l.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.APIKey)
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return Judgment{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Judgment{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Judgment{}, err
	}
	if len(parsed.Choices) == 0 {
		return Judgment{}, errors.New("classifier returned no choices")
	}

	return parseVerdict(parsed.Choices[0].Message.Content)
}

func buildClassifierPrompt(triggers []RuleTrigger) (string, error) {
	var b strings.Builder
	b.WriteString("Triggered rules and evidence:\n")
	for _, t := range triggers {
		ev, err := json.Marshal(t.Evidence)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "- rule=%s severity=%s evidence=%s\n", t.Type, t.Severity, ev)
	}
	return b.String(), nil
}

// parseVerdict tolerates markdown code fences around the JSON, a habit some
// models keep even when told not to.
func parseVerdict(content string) (Judgment, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var out struct {
		Verdict   string `json:"verdict"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Judgment{}, fmt.Errorf("unparseable classifier verdict: %w", err)
	}
	switch out.Verdict {
	case "suspicious":
		return Judgment{Suspicious: true, Rationale: out.Rationale}, nil
	case "normal":
		return Judgment{Suspicious: false, Rationale: out.Rationale}, nil
	default:
		return Judgment{}, fmt.Errorf("unknown classifier verdict %q", out.Verdict)
	}
}
