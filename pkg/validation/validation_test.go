package validation

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltins(t *testing.T) {
	digits := regexp.MustCompile(`^\d+$`)

	cases := []struct {
		name   string
		result Result
		want   Result
	}{
		{name: "required empty string", result: Required(""), want: Fail(MessageRequired)},
		{name: "required nil", result: Required(nil), want: Fail(MessageRequired)},
		{name: "required custom message", result: Required("", "must be set"), want: Fail("must be set")},
		{name: "required zero int passes", result: Required(0), want: Pass()},
		{name: "required value", result: Required("joe"), want: Pass()},
		{name: "pattern match", result: Pattern("123", digits), want: Pass()},
		{name: "pattern mismatch", result: Pattern("12a", digits, "digits"), want: Fail("digits")},
		{name: "email pattern", result: Pattern("joe@example.com", EmailPattern), want: Pass()},
		{name: "email default message", result: Pattern("joe", EmailPattern), want: Fail(MessageNotEmail)},
		{name: "min length empty passes", result: MinLength("", 3), want: Pass()},
		{name: "min length short", result: MinLength("ab", 3), want: Fail(MessageTooShort)},
		{name: "min length counts runes", result: MinLength("héé", 3), want: Pass()},
		{name: "max length empty fails", result: MaxLength("", 3), want: Fail(MessageTooLong)},
		{name: "max length long", result: MaxLength("abcd", 3), want: Fail(MessageTooLong)},
		{name: "max length ok", result: MaxLength("abc", 3), want: Pass()},
		{name: "equals both empty", result: Equals("", nil), want: Pass()},
		{name: "equals mismatch", result: Equals("a", "b"), want: Fail(MessageNotEqualTo)},
		{name: "equals one empty", result: Equals("a", ""), want: Fail(MessageNotEqualTo)},
		{name: "equals match", result: Equals("secret", "secret"), want: Pass()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.result); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChain_StopsAtFirstInvalid(t *testing.T) {
	calls := 0
	value := "ab"
	got := Chain(
		func() Result { calls++; return Required(value) },
		func() Result { calls++; return MinLength(value, 1, "must be > 1") },
		func() Result { calls++; return MinLength(value, 3, "must be > 3") },
		func() Result { calls++; return MinLength(value, 4, "must be > 4") },
	)

	want := Result{Valid: false, Errors: []string{"must be > 3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chain mismatch (-want +got):\n%s", diff)
	}
	if calls != 3 {
		t.Fatalf("expected chain to stop after 3 steps, ran %d", calls)
	}
}

func TestChain_AllValid(t *testing.T) {
	got := Chain(
		func() Result { return Required("joe") },
		func() Result { return MinLength("joe", 2) },
	)
	if !got.Valid {
		t.Fatalf("expected valid chain, got %+v", got)
	}
}

func TestResultModes(t *testing.T) {
	if !FailAll("x").Replaces() {
		t.Fatalf("expected FailAll to replace")
	}
	if Fail("x").Replaces() {
		t.Fatalf("expected Fail to add")
	}
	if (Result{Valid: false}).HasMessages() {
		t.Fatalf("expected bare failure to carry no messages")
	}
	if diff := cmp.Diff([]string{"a", "b"}, FailAll("a", "", "b").Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := Compact([]string{"", ""}); got != nil {
		t.Fatalf("expected nil after compacting empties, got %#v", got)
	}
	if !Skip().Ignore {
		t.Fatalf("expected Skip to ignore")
	}
}

func TestTag(t *testing.T) {
	email := Tag("required,email")
	if got := email("joe@example.com"); !got.Valid {
		t.Fatalf("expected valid email, got %+v", got)
	}
	if got := email(""); got.Valid || got.Error != "errors.required" {
		t.Fatalf("expected required failure, got %+v", got)
	}
	if got := email("nope"); got.Valid || got.Error != "errors.email" {
		t.Fatalf("expected email failure, got %+v", got)
	}

	short := Tag("min=3")
	if got := short("ab"); got.Valid || got.Error != "errors.min:3" {
		t.Fatalf("expected min failure, got %+v", got)
	}

	custom := Tag("max=2", "too long")
	if got := custom("abc"); got.Error != "too long" {
		t.Fatalf("expected custom message, got %+v", got)
	}
}
