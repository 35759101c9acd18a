package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/validation"
	"go.uber.org/zap"
)

// Suggester picks a rule for a client. It is opaque text in, text out.
type Suggester interface {
	Suggest(ctx context.Context, clientInformation, availableRules string) (*models.RuleSuggestion, error)
}

type RuleService struct {
	suggester Suggester
	log       *zap.Logger
}

// NewRuleService returns a service that reports ErrSuggesterDisabled when
// suggester is nil.
func NewRuleService(suggester Suggester, log *zap.Logger) *RuleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RuleService{suggester: suggester, log: log}
}

// Enabled reports whether a suggester is configured.
func (s *RuleService) Enabled() bool { return s.suggester != nil }

func (s *RuleService) SuggestRule(ctx context.Context, clientInformation, availableRules string) (*models.RuleSuggestion, error) {
	v := validation.Violations{}
	validation.Required("client_information", clientInformation, v)
	validation.Required("available_rules", availableRules, v)
	if err := invalid(v); err != nil {
		return nil, err
	}
	if s.suggester == nil {
		return nil, ErrSuggesterDisabled
	}
	out, err := s.suggester.Suggest(ctx, clientInformation, availableRules)
	if err != nil {
		s.log.Warn("rule suggestion failed", zap.Error(err))
		return nil, fmt.Errorf("suggest rule: %w", err)
	}
	return out, nil
}
