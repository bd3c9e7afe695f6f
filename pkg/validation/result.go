package validation

// Result is the verdict returned by every validate function.
//
// Errors and Error select how a failure is merged into a node's error store:
// a non-nil Errors slice replaces every message stored for the property,
// while a single Error is appended next to messages written by other
// validations of the same property. When both are set Errors wins. Ignore
// defers judgment and leaves stored errors untouched.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	Error  string   `json:"error,omitempty"`
	Ignore bool     `json:"ignore,omitempty"`
}

// Func validates a single value.
type Func func(value any) Result

// Pass reports a valid value.
func Pass() Result {
	return Result{Valid: true}
}

// Fail reports an invalid value with a single message that is added to the
// property's existing messages.
func Fail(message string) Result {
	return Result{Valid: false, Error: message}
}

// FailAll reports an invalid value whose messages replace everything stored
// for the property.
func FailAll(messages ...string) Result {
	if messages == nil {
		messages = []string{}
	}
	return Result{Valid: false, Errors: messages}
}

// Skip reports that the validation does not apply yet.
func Skip() Result {
	return Result{Ignore: true}
}

// Replaces reports whether the result is in replacing (array) mode.
func (r Result) Replaces() bool {
	return r.Errors != nil
}

// HasMessages reports whether the result carries at least one message in
// either mode.
func (r Result) HasMessages() bool {
	return r.Errors != nil || r.Error != ""
}

// Messages returns the non-empty messages carried by the result.
func (r Result) Messages() []string {
	if r.Errors != nil {
		return Compact(r.Errors)
	}
	if r.Error != "" {
		return []string{r.Error}
	}
	return nil
}

// Compact drops empty messages while preserving order. It returns nil when
// nothing is left.
func Compact(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	for _, message := range messages {
		if message == "" {
			continue
		}
		out = append(out, message)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
