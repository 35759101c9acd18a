// Package ai talks to the OpenAI chat completion API.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the model answers without a rule.
var ErrEmptyResponse = errors.New("no rule suggested")

const systemPrompt = "You are an expert CRM system. Your task is to suggest the best rule to apply to a client " +
	"based on their information and the available rules. Always respond with a JSON object " +
	`of the form {"suggestedRule": string, "reasoning": string}.`

// Config holds the OpenAI client settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// RuleSuggester asks a chat model which rule fits a client best.
type RuleSuggester struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewRuleSuggester creates a suggester. BaseURL is optional and points the
// client at an OpenAI compatible endpoint.
func NewRuleSuggester(cfg Config, logger *zap.Logger) *RuleSuggester {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleSuggester{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		logger: logger,
	}
}

type suggestionReply struct {
	SuggestedRule string `json:"suggestedRule"`
	Reasoning     string `json:"reasoning"`
}

// Suggest returns the rule from availableRules that best matches the client.
func (s *RuleSuggester) Suggest(ctx context.Context, clientInformation, availableRules string) (*models.RuleSuggestion, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(clientInformation, availableRules)},
		},
	}

	s.logger.Debug("sending rule suggestion request", zap.String("model", s.model))
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		s.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrEmptyResponse)
	}

	reply, err := parseReply(resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("failed to parse rule suggestion", zap.Error(err))
		return nil, err
	}
	s.logger.Info("rule suggested", zap.String("rule", reply.SuggestedRule))
	return &models.RuleSuggestion{Rule: reply.SuggestedRule, Reasoning: reply.Reasoning}, nil
}

func buildPrompt(clientInformation, availableRules string) string {
	return fmt.Sprintf(`Client Information: %s

Available Rules: %s

Based on the client information and available rules, suggest the most relevant rule and explain your reasoning.`,
		clientInformation, availableRules)
}

// parseReply decodes the model output, tolerating text or markdown fences
// around the JSON object.
func parseReply(content string) (*suggestionReply, error) {
	var reply suggestionReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		start, end := strings.Index(content, "{"), strings.LastIndex(content, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	if strings.TrimSpace(reply.SuggestedRule) == "" {
		return nil, ErrEmptyResponse
	}
	return &reply, nil
}
