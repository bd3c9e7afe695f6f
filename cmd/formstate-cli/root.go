package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

// Version is set via -ldflags.
var Version = "dev"

// newDriver builds the prompt driver used by fill. Prompts go to stderr so
// stdout carries only the serialized form. Tests swap it for a scripted one.
var newDriver = func(info io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(
		tui.WithStdio(os.Stdin, os.Stderr),
		tui.WithInfoWriter(info),
	)
}

type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
}

func newRootCmd() *cobra.Command {
	c := &cli{v: newViper()}

	root := &cobra.Command{
		Use:           "formstate-cli",
		Short:         "Fill a sample signup form in the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(c.v, c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	_ = c.v.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(newFillCmd(c))
	return root
}
