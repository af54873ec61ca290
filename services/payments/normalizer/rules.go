package normalizer

import (
	"strings"

	"github.com/zeduno/paygate/internal/pkg/models"
)

// Predicate decides one aspect of an outcome. Fields holds the decoded flat payload,
// empty for envelope callbacks.
type Predicate func(out *models.CallbackOutcome, fields Fields) bool

// Rules classify a normalized callback. Success predicates are evaluated first and the
// first match wins; otherwise Pending marks the outcome non-terminal; otherwise it failed.
type Rules struct {
	Success []Predicate
	Pending []Predicate
}

// apply sets Success and Pending on out
func (r Rules) apply(out *models.CallbackOutcome, fields Fields) {
	for _, p := range r.Success {
		if p(out, fields) {
			out.Success = true
			return
		}
	}
	for _, p := range r.Pending {
		if p(out, fields) {
			out.Pending = true
			return
		}
	}
}

// ResultCodeZero matches a numeric zero result code
func ResultCodeZero() Predicate {
	return ResultCodeIn("0")
}

// ResultCodeIn matches any of the given result codes
func ResultCodeIn(codes ...string) Predicate {
	return func(out *models.CallbackOutcome, _ Fields) bool {
		code := strings.TrimSpace(out.ResultCode)
		if code == "" {
			return false
		}
		for _, c := range codes {
			if code == c {
				return true
			}
		}
		return false
	}
}

// StatusIn matches a case-insensitive status
func StatusIn(statuses ...string) Predicate {
	return func(out *models.CallbackOutcome, _ Fields) bool {
		status := strings.ToLower(strings.TrimSpace(out.Status))
		if status == "" {
			return false
		}
		for _, s := range statuses {
			if status == s {
				return true
			}
		}
		return false
	}
}

// DescriptionContains matches a case-insensitive substring of the result description
func DescriptionContains(fragment string) Predicate {
	fragment = strings.ToLower(fragment)
	return func(out *models.CallbackOutcome, _ Fields) bool {
		return out.ResultDesc != "" && strings.Contains(strings.ToLower(out.ResultDesc), fragment)
	}
}

// HasReceipt matches when the provider reported a settlement receipt. Aggregator transaction
// ids are issued before the customer pays and do not count.
func HasReceipt() Predicate {
	return func(out *models.CallbackOutcome, _ Fields) bool {
		return strings.TrimSpace(out.ReceiptNumber) != ""
	}
}

// FieldIn matches a raw payload field against case-insensitive values
func FieldIn(key string, values ...string) Predicate {
	return func(_ *models.CallbackOutcome, fields Fields) bool {
		v := strings.ToLower(fields.String(key))
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}

// All matches when every predicate matches
func All(preds ...Predicate) Predicate {
	return func(out *models.CallbackOutcome, fields Fields) bool {
		for _, p := range preds {
			if !p(out, fields) {
				return false
			}
		}
		return len(preds) > 0
	}
}
