package guard

import (
	"fmt"
	"time"
)

// Record is an immutable description of one intercepted panic.
//
// Records are created only by a Guard at the moment of interception and are
// owned by whichever history they were appended to.
type Record struct {
	// Timestamp is the interception time.
	Timestamp time.Time

	// Kind identifies the failure category: the dynamic type of the panic
	// value, e.g. "*errors.errorString" or "runtime.boundsError".
	Kind string

	// Message is the panic value rendered as text.
	Message string

	// Context describes where the failure was intercepted: the guard's
	// configured message if set, otherwise a generated identifier naming the
	// guarded entity.
	Context string

	// Args holds textual representations of the call arguments, in order.
	// Empty for scoped-block interceptions, where no call arguments exist.
	Args []string

	// Stack is the stack trace captured at interception time.
	Stack []byte
}

// String renders the record as "<timestamp>: <context> - <kind>: <message>".
func (r Record) String() string {
	return fmt.Sprintf("%s: %s - %s: %s",
		r.Timestamp.Format(time.RFC3339Nano), r.Context, r.Kind, r.Message)
}

// kindOf returns the failure category identifier for a panic value.
func kindOf(value any) string {
	if value == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%T", value)
}

// messageOf formats a panic value as a plain text message.
func messageOf(value any) string {
	switch val := value.(type) {
	case nil:
		return "<nil>"
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// panicError wraps a non-error panic value so it can be handed to a Reporter.
type panicError struct {
	message string
}

// Error returns the panic error message.
func (e *panicError) Error() string {
	return e.message
}

// toError converts a panic value to an error for reporting purposes.
func toError(value any) error {
	if err, ok := value.(error); ok {
		return err
	}

	return &panicError{message: "panic: " + messageOf(value)}
}
