package models

// RuleSuggestion is the rule picked for a client and the reason for it.
type RuleSuggestion struct {
	Rule      string `json:"suggested_rule"`
	Reasoning string `json:"reasoning"`
}
