package model

// FiredTrigger is a single rule firing produced by the trigger engine.
type FiredTrigger struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
	Detail  string `json:"detail"` // snapshot excerpt, e.g. "BTC Dom: 55.0% | Alt Index: 80.0"
}
