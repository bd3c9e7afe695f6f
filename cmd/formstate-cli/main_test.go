package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type scriptedDriver struct {
	inputs    []string
	passwords []string
	confirms  []bool
	info      []string
}

func (s *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	if len(s.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[0]
	s.passwords = s.passwords[1:]
	return val, nil
}

func (s *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[0]
	s.confirms = s.confirms[1:]
	return val, nil
}

func (s *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return -1, errors.New("unexpected select")
}

func (s *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, errors.New("unexpected multiselect")
}

func (s *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("unexpected textarea")
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func useDriver(t *testing.T, d tui.PromptDriver) {
	t.Helper()
	prev := newDriver
	newDriver = func(io.Writer) tui.PromptDriver { return d }
	t.Cleanup(func() { newDriver = prev })
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFillCommand(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		golden string
	}{
		{name: "json", args: []string{"fill", "--output", "json"}, golden: "fill.json.golden"},
		{name: "yaml", args: []string{"fill", "-o", "yaml"}, golden: "fill.yaml.golden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := &scriptedDriver{
				inputs:    []string{"<b>Ada</b>", "Lovelace", "nope", "ada@example.com", "1 Main St", "London", "12a", "12345"},
				passwords: []string{"short", "s3cretpass1", "other", "s3cretpass1"},
				confirms:  []bool{true, true, false},
			}
			useDriver(t, driver)

			var stdout, stderr bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("execute: %v\n%s", err, stderr.String())
			}
			testsupport.AssertGolden(t, filepath.Join("testdata", tt.golden), stdout.Bytes())

			wantInfo := []string{
				"Invalid email: " + validation.MessageNotEmail,
				"Invalid password: " + validation.MessageTooShort,
				"Invalid passwordConfirmation: " + validation.MessageNotEqualTo,
				"Invalid addresses.0.zip: errors.numeric",
			}
			if diff := cmp.Diff(wantInfo, driver.info); diff != "" {
				t.Fatalf("info mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFillCommand_Aborted(t *testing.T) {
	useDriver(t, &scriptedDriver{})

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"fill"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error when prompts run out")
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		want    Config
		wantErr error
	}{
		{
			name: "defaults",
			want: DefaultConfig(),
		},
		{
			name: "environment",
			env: map[string]string{
				"FORMSTATE_OUTPUT":                 "yaml",
				"FORMSTATE_VALIDATE_ALL_ON_CHANGE": "true",
			},
			want: Config{Output: "yaml", Sanitize: true, ValidateAllOnChange: true},
		},
		{
			name: "config file",
			file: "output: pretty\nsanitize: false\ndata: seed.yaml\n",
			want: Config{Output: "pretty", Data: "seed.yaml"},
		},
		{
			name:    "unknown format",
			file:    "output: xml\n",
			wantErr: tui.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, val := range tt.env {
				t.Setenv(key, val)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, "formstate.yaml", tt.file)
			}

			got, err := loadConfig(newViper(), path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewSignup_FromData(t *testing.T) {
	path := writeFile(t, "seed.yaml", `
firstName: Ada
email: ada@example.com
unknown: ignored
addresses:
  - city: Paris
    zip: 75001
`)
	data, err := loadData(path)
	if err != nil {
		t.Fatalf("load data: %v", err)
	}

	node := newSignup(data, logging.Discard())
	if diff := cmp.Diff(signupOrder, node.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if node.Has("unknown") {
		t.Fatalf("unknown keys must not be copied into the form")
	}
	addresses := node.Many("addresses")
	if len(addresses) != 1 {
		t.Fatalf("expected one address, got %d", len(addresses))
	}
	if got := addresses[0].Get("zip"); got != "75001" {
		t.Fatalf("expected zip as text, got %#v", got)
	}
}

func TestNewSignup_PasswordConfirmation(t *testing.T) {
	node := newSignup(map[string]any{
		"firstName":            "Ada",
		"lastName":             "Lovelace",
		"email":                "ada@example.com",
		"password":             "s3cretpass1",
		"passwordConfirmation": "s3cretpass2",
	}, logging.Discard())

	if err := node.Validator().ValidateDefault(true); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := node.Validator().FirstErrorFor("passwordConfirmation"); got != validation.MessageNotEqualTo {
		t.Fatalf("expected %q, got %q", validation.MessageNotEqualTo, got)
	}
	if node.Validator().IsValid() {
		t.Fatalf("expected the form to be invalid")
	}
}
