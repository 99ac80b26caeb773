package captcha

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store implementations when a key has no
// live entry. A miss and a lapsed TTL are indistinguishable.
var ErrNotFound = errors.New("challenge not found")

// Reason is a machine-readable validation failure code.
type Reason string

const (
	// ReasonNotFoundOrExpired covers both an identifier that never
	// existed and one whose TTL has elapsed.
	ReasonNotFoundOrExpired Reason = "not_found_or_expired"
	// ReasonIncorrectAnswer means the entry exists but the submitted
	// value does not match the expected answer.
	ReasonIncorrectAnswer Reason = "incorrect_answer"
	// ReasonMalformedInput means the submitted value could not be
	// parsed as an integer. The store is never consulted.
	ReasonMalformedInput Reason = "malformed_input"
)

// Localization message keys surfaced to callers. The caller owns the
// catalog; this package only names the key.
const (
	MsgKeyCodeError   = "CaptchaCodeErrorMessage"
	MsgKeyCodeMissing = "CaptchaCodeMissingMessage"
)

// Failure is a user-facing, recoverable validation failure. Anything
// else returned by the Service is an infrastructure error and should
// not be shown to end users.
type Failure struct {
	Reason Reason
	cause  error
}

func newFailure(reason Reason, cause error) *Failure {
	return &Failure{Reason: reason, cause: cause}
}

func (f *Failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("captcha validation failed: %s: %v", f.Reason, f.cause)
	}
	return fmt.Sprintf("captcha validation failed: %s", f.Reason)
}

func (f *Failure) Unwrap() error { return f.cause }

// MessageKey maps the failure to the localization key the caller should
// resolve: wrong or missing challenges share one message, unparsable
// input gets another.
func (f *Failure) MessageKey() string {
	if f.Reason == ReasonMalformedInput {
		return MsgKeyCodeMissing
	}
	return MsgKeyCodeError
}

// AsFailure unwraps err into a *Failure if it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
