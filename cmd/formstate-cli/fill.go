package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func newFillCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Prompt for every signup field and print the submitted values",
		Example: `  formstate-cli fill
  formstate-cli fill --output yaml --data seed.yaml
  FORMSTATE_OUTPUT=form formstate-cli fill`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFill(cmd, c.cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", DefaultConfig().Output, "output format: json, form, pretty or yaml")
	flags.String("data", "", "YAML file with initial values")
	flags.Bool("sanitize", DefaultConfig().Sanitize, "strip markup from non-secret text input")
	flags.Bool("validate-all-on-change", false, "revalidate the whole form after every change")

	_ = c.v.BindPFlag("output", flags.Lookup("output"))
	_ = c.v.BindPFlag("data", flags.Lookup("data"))
	_ = c.v.BindPFlag("sanitize", flags.Lookup("sanitize"))
	_ = c.v.BindPFlag("validate_all_on_change", flags.Lookup("validate-all-on-change"))

	return cmd
}

func runFill(cmd *cobra.Command, cfg Config) error {
	logger := logging.New(cmd.ErrOrStderr(), "formstate", cfg.Verbose)

	data, err := loadData(cfg.Data)
	if err != nil {
		return err
	}

	fs := formstate.New(newSignup(data, logger),
		formstate.WithLogger(logger),
		formstate.WithValidateAllOnChange(cfg.ValidateAllOnChange),
	)
	logger.Debug("signup form ready", "key", fs.Root().UniqueKey(), "output", cfg.Output)

	format, _ := tui.ParseOutputFormat(cfg.Output)
	renderOpts := append([]tui.Option{
		tui.WithPromptDriver(newDriver(cmd.ErrOrStderr())),
		tui.WithOutputFormat(format),
		tui.WithSanitizedInput(cfg.Sanitize),
		tui.WithLogger(logger),
	}, signupFields(logger)...)

	renderer, err := tui.New(renderOpts...)
	if err != nil {
		return err
	}

	out, err := renderer.Fill(cmd.Context(), fs)
	switch {
	case errors.Is(err, tui.ErrAborted):
		logger.Warn("form aborted")
		return err
	case err != nil:
		return fmt.Errorf("fill signup: %w", err)
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if format != tui.OutputFormatYAML && format != tui.OutputFormatPrettyText {
		_, err = fmt.Fprintln(w)
	}
	return err
}
