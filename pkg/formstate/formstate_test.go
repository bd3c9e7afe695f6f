package formstate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Debug(any, ...any) {}

func (r *recordingLogger) Warn(msg any, _ ...any) {
	r.warnings = append(r.warnings, fmt.Sprint(msg))
}

func required(value any, _ *model.Node, _ *model.Validator) validation.Result {
	return validation.Required(value)
}

func newSignup(t *testing.T, opts ...Option) (*FormState, *recordingLogger) {
	t.Helper()
	logger := &recordingLogger{}
	address := model.Make(model.Config{
		Type:   model.NewType("address"),
		Data:   map[string]any{"city": "Paris"},
		Rules:  map[string]model.Rule{"city": required},
		Logger: logger,
	})
	fs := Make(model.Config{
		Type: model.NewType("signup", model.HasMany("addresses")),
		Data: map[string]any{
			"firstName": "",
			"lastName":  "",
			"nickname":  "",
			"addresses": []*model.Node{address},
		},
		Order: []string{"firstName", "lastName", "nickname", "addresses"},
		Rules: map[string]model.Rule{
			"firstName": required,
			"lastName":  required,
		},
	}, append([]Option{WithLogger(logger)}, opts...)...)
	return fs, logger
}

type renderCounter struct {
	renders int
	input   *Input
}

func (c *renderCounter) notify() {
	c.renders++
	c.input.Render()
}

func bind(fs *FormState, node *model.Node, property string, opts ...InputOption) *renderCounter {
	c := &renderCounter{}
	c.input = fs.Bind(node, property, c.notify, opts...)
	return c
}

func TestOnValueChange_ValidatesAndBroadcasts(t *testing.T) {
	fs, _ := newSignup(t)
	first := bind(fs, nil, "firstName")
	last := bind(fs, nil, "lastName")

	if fs.Touched() {
		t.Fatalf("new form must be untouched")
	}

	if err := first.input.Change(""); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := first.input.FirstError(); got != validation.MessageRequired {
		t.Fatalf("expected %q, got %q", validation.MessageRequired, got)
	}
	if first.renders != 1 || last.renders != 0 {
		t.Fatalf("expected only firstName to render, got first=%d last=%d", first.renders, last.renders)
	}
	if !fs.Touched() {
		t.Fatalf("change must mark the form touched")
	}

	if err := fs.OnValueChange("Joe", nil, "firstName"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if !first.input.IsValid() || first.input.Text() != "Joe" {
		t.Fatalf("expected valid firstName Joe, got %q (%q)", first.input.Text(), first.input.FirstError())
	}
	if first.renders != 2 || last.renders != 0 {
		t.Fatalf("expected first=2 last=0, got first=%d last=%d", first.renders, last.renders)
	}

	if err := fs.OnValueChange("Joe", nil, "firstName"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if first.renders != 2 {
		t.Fatalf("same value and error must not re-render, got %d", first.renders)
	}
}

func TestOnValueChange_ValidateOverride(t *testing.T) {
	fs, _ := newSignup(t)
	root := fs.Root()

	err := fs.OnValueChange("x", root, "firstName", WithValidate(func(value any) validation.Result {
		return validation.FailAll("too short", "no digits")
	}))
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	want := []string{"too short", "no digits"}
	if diff := cmp.Diff(want, root.Validator().ErrorsFor("firstName")); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	if err := fs.OnValueChange("", root, "firstName", SkipValidationOnChange()); err != nil {
		t.Fatalf("change: %v", err)
	}
	if diff := cmp.Diff(want, root.Validator().ErrorsFor("firstName")); diff != "" {
		t.Fatalf("skipped validation must keep errors (-want +got):\n%s", diff)
	}
}

func TestOnValueChange_WarnsWithoutRule(t *testing.T) {
	fs, logger := newSignup(t)
	if err := fs.OnValueChange("jj", nil, "nickname"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if len(logger.warnings) != 1 {
		t.Fatalf("expected one warning, got %v", logger.warnings)
	}
	if fs.Root().Get("nickname") != "jj" {
		t.Fatalf("value must still be assigned")
	}
}

func TestOnValueChange_HookRunsBeforeBroadcast(t *testing.T) {
	fs, _ := newSignup(t)
	before := fs.Version()

	var seen uint64
	err := fs.OnValueChange("Joe", nil, "firstName", AdditionallyOnChange(func() {
		seen = fs.Version()
	}))
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if seen != before || fs.Version() != before+1 {
		t.Fatalf("hook saw version %d, want %d; final %d", seen, before, fs.Version())
	}
}

func TestOnValueChange_ValidateAllOnChange(t *testing.T) {
	fs, _ := newSignup(t, WithValidateAllOnChange(true))
	if err := fs.OnValueChange("Joe", nil, "firstName"); err != nil {
		t.Fatalf("change: %v", err)
	}
	want := model.Errors{"lastName": {validation.MessageRequired}}
	if diff := cmp.Diff(want, fs.Root().Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestOnValueChange_RelationShape(t *testing.T) {
	fs, _ := newSignup(t)
	before := fs.Version()
	err := fs.OnValueChange("oops", nil, "addresses")
	if !errors.Is(err, model.ErrRelationShape) {
		t.Fatalf("expected ErrRelationShape, got %v", err)
	}
	if fs.Version() != before || fs.Touched() {
		t.Fatalf("failed assignment must not broadcast")
	}
}

func TestOnValueChange_NestedNode(t *testing.T) {
	fs, _ := newSignup(t)
	address := fs.Root().Many("addresses")[0]
	city := bind(fs, address, "city")

	if err := city.input.Change(""); err != nil {
		t.Fatalf("change: %v", err)
	}
	if city.renders != 1 || city.input.FirstError() != validation.MessageRequired {
		t.Fatalf("expected nested input to render with an error, renders=%d error=%q", city.renders, city.input.FirstError())
	}
	if fs.IsValid() {
		t.Fatalf("nested error must invalidate the form")
	}
}

func TestInput_ValidateOnBlur(t *testing.T) {
	fs, _ := newSignup(t)
	first := bind(fs, nil, "firstName", ValidateOnBlur())

	if err := first.input.Change(""); err != nil {
		t.Fatalf("change: %v", err)
	}
	if first.input.FirstError() != validation.MessageRequired {
		t.Fatalf("change must still validate, got %q", first.input.FirstError())
	}
	if first.renders != 1 {
		t.Fatalf("change must broadcast the new error, got %d renders", first.renders)
	}

	fs.Root().Validator().RemoveErrors("firstName")
	if err := first.input.Blur(); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if first.input.FirstError() != validation.MessageRequired {
		t.Fatalf("blur must validate again, got %q", first.input.FirstError())
	}
	if first.renders != 2 {
		t.Fatalf("blur must broadcast the new error, got %d renders", first.renders)
	}

	plain := bind(fs, nil, "lastName")
	version := fs.Version()
	if err := plain.input.Blur(); err != nil || fs.Version() != version {
		t.Fatalf("blur without ValidateOnBlur must do nothing")
	}
}

func TestOnValueChange_ValidateOnBlurStillValidates(t *testing.T) {
	fs, _ := newSignup(t, WithValidateAllOnChange(true))

	if err := fs.OnValueChange("", nil, "firstName", ValidateOnBlur()); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := fs.Root().Validator().FirstErrorFor("firstName"); got != validation.MessageRequired {
		t.Fatalf("expected %q, got %q", validation.MessageRequired, got)
	}
	if got := fs.Root().Validator().FirstErrorFor("lastName"); got != validation.MessageRequired {
		t.Fatalf("validateAllOnChange must still run, lastName error %q", got)
	}
}

func TestInput_Close(t *testing.T) {
	fs, _ := newSignup(t)
	first := bind(fs, nil, "firstName")
	first.input.Close()

	if err := fs.OnValueChange("Joe", nil, "firstName"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if first.renders != 0 {
		t.Fatalf("closed input must not render, got %d", first.renders)
	}
	if fs.Len() != 0 {
		t.Fatalf("expected no subscriptions, got %d", fs.Len())
	}
}

func TestSanitize(t *testing.T) {
	fs, _ := newSignup(t, WithSanitizer(StrictSanitizer()))
	if err := fs.OnValueChange("<b>Joe</b>", nil, "firstName"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := fs.Root().Get("firstName"); got != "Joe" {
		t.Fatalf("expected sanitized value, got %v", got)
	}

	plain, _ := newSignup(t)
	if err := plain.OnValueChange("<i>Doe</i>", nil, "lastName"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := plain.Root().Get("lastName"); got != "<i>Doe</i>" {
		t.Fatalf("expected raw value without sanitizer, got %v", got)
	}
	if err := plain.OnValueChange("<i>Doe</i>", nil, "lastName", Sanitize()); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := plain.Root().Get("lastName"); got != "Doe" {
		t.Fatalf("expected per-input sanitizing, got %v", got)
	}
}

func TestValidateAll(t *testing.T) {
	fs, _ := newSignup(t)
	address := fs.Root().Many("addresses")[0]
	address.MustSet("city", "")

	cases := []struct {
		name       string
		args       ValidateArgs
		rootErrs   []string
		nestedErrs bool
		broadcast  bool
	}{
		{name: "defaults", args: ValidateArgs{}, rootErrs: []string{"firstName", "lastName"}, nestedErrs: true, broadcast: true},
		{name: "skip nested", args: ValidateArgs{SkipNested: true}, rootErrs: []string{"firstName", "lastName"}, broadcast: true},
		{name: "methods", args: ValidateArgs{Methods: []string{"lastName"}, SkipUpdate: true}, rootErrs: []string{"lastName"}, nestedErrs: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs.Reset()
			version := fs.Version()

			if err := fs.ValidateAll(tc.args); err != nil {
				t.Fatalf("validate all: %v", err)
			}
			if diff := cmp.Diff(tc.rootErrs, fs.Root().Errors().Properties()); diff != "" {
				t.Fatalf("root errors mismatch (-want +got):\n%s", diff)
			}
			if got := address.Errors() != nil; got != tc.nestedErrs {
				t.Fatalf("nested errors = %v, want %v", got, tc.nestedErrs)
			}
			if got := fs.Version() > version; got != tc.broadcast {
				t.Fatalf("broadcast = %v, want %v", got, tc.broadcast)
			}
		})
	}
}

func TestValidateAll_UnknownMethod(t *testing.T) {
	fs, _ := newSignup(t)
	version := fs.Version()
	err := fs.ValidateAll(ValidateArgs{Methods: []string{"missing"}})
	if !errors.Is(err, model.ErrUnknownValidation) {
		t.Fatalf("expected ErrUnknownValidation, got %v", err)
	}
	if fs.Version() != version {
		t.Fatalf("failed validation must not broadcast")
	}
}

func TestReset(t *testing.T) {
	fs, _ := newSignup(t)
	first := bind(fs, nil, "firstName")
	if err := first.input.Change(""); err != nil {
		t.Fatalf("change: %v", err)
	}

	fs.Reset()
	if fs.Touched() || !fs.IsValid() {
		t.Fatalf("reset must clear errors and touched")
	}
	if first.renders != 2 {
		t.Fatalf("cleared error must re-render the input, got %d", first.renders)
	}
}
