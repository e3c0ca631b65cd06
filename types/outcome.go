package types

import "time"

// Outcome is the result of one provider's discovery run. Sub-call
// failures never abort a run; they accumulate as warnings next to
// whatever was found.
type Outcome struct {
	Provider  string        `json:"provider"`
	Resources []Resource    `json:"resources"`
	Warnings  []Warning     `json:"warnings,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Warning records a non-fatal sub-call failure. Scope names the unit
// that failed, like "zone example.com" or "project acme-prod".
type Warning struct {
	Scope string `json:"scope"`
	Err   string `json:"error"`
}

// Warn appends a warning for the given scope.
func (o *Outcome) Warn(scope string, err error) {
	o.Warnings = append(o.Warnings, Warning{Scope: scope, Err: err.Error()})
}

// Partial reports whether discovery completed with sub-call failures.
func (o *Outcome) Partial() bool {
	return len(o.Warnings) > 0
}
