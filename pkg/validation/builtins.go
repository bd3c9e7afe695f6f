package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"
)

// Default messages used by the built-in validate functions. They are message
// keys rather than prose so the UI layer can translate them.
const (
	MessageRequired   = "required"
	MessageNotEmail   = "errors.isNotEmail"
	MessageTooShort   = "errors.tooShort"
	MessageTooLong    = "errors.tooLong"
	MessageNotEqualTo = "errors.notEqualTo"
)

// EmailPattern is a permissive address check suitable for Pattern.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Required fails for nil and the empty string.
func Required(value any, message ...string) Result {
	if isBlank(value) {
		return Fail(pick(message, MessageRequired))
	}
	return Pass()
}

// Pattern fails when the string form of value does not match re.
func Pattern(value any, re *regexp.Regexp, message ...string) Result {
	if re != nil && re.MatchString(stringOf(value)) {
		return Pass()
	}
	return Fail(pick(message, MessageNotEmail))
}

// MinLength fails when value is shorter than minLength. Empty values pass so
// the rule composes with Required.
func MinLength(value any, minLength int, message ...string) Result {
	length, ok := lengthOf(value)
	if !ok || length == 0 || length >= minLength {
		return Pass()
	}
	return Fail(pick(message, MessageTooShort))
}

// MaxLength fails when value is longer than maxLength. Empty values fail.
func MaxLength(value any, maxLength int, message ...string) Result {
	length, ok := lengthOf(value)
	if !ok {
		return Pass()
	}
	if length == 0 || length > maxLength {
		return Fail(pick(message, MessageTooLong))
	}
	return Pass()
}

// Equals fails when value differs from toMatch. Two empty values pass.
func Equals(value, toMatch any, message ...string) Result {
	if isBlank(value) && isBlank(toMatch) {
		return Pass()
	}
	if stringOf(value) != stringOf(toMatch) || isBlank(value) != isBlank(toMatch) {
		return Fail(pick(message, MessageNotEqualTo))
	}
	return Pass()
}

// Chain runs validations in order and returns the first invalid result, or
// the last result when every step passed. A single Error is promoted to the
// replacing Errors form so the chain owns every message of the property.
func Chain(steps ...func() Result) Result {
	last := Pass()
	for _, step := range steps {
		if step == nil {
			continue
		}
		last = step()
		if last.Errors == nil && last.Error != "" {
			last.Errors = []string{last.Error}
			last.Error = ""
		}
		if !last.Valid {
			return last
		}
	}
	return last
}

func pick(message []string, fallback string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return fallback
}

func isBlank(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

func stringOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func lengthOf(value any) (int, bool) {
	if value == nil {
		return 0, true
	}
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}
