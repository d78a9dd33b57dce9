package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.trai.ch/extbuild/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile every extension below the input root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return zerr.Wrap(err, "failed to bind flags")
			}

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Input:       v.GetString("input"),
				Output:      v.GetString("output"),
				Language:    v.GetString("language"),
				Watch:       v.GetBool("watch"),
				Force:       v.GetBool("force"),
				Concurrency: v.GetInt("concurrency"),
				ConfigPath:  v.GetString("config"),
				OutputMode:  v.GetString("output-mode"),
				CI:          v.GetBool("ci"),
				TraceFile:   v.GetString("trace"),
				NoClean:     v.GetBool("no-clean"),
			})
		},
	}
	cmd.Flags().StringP("input", "i", "./src/extensions/", "Root of the extension sources")
	cmd.Flags().StringP("output", "o", "./extensions/", "Root the built extensions are written to")
	cmd.Flags().StringP("language", "l", "", "Preferred source language: javascript or typescript")
	cmd.Flags().BoolP("watch", "w", false, "Rebuild extensions when their sources change")
	cmd.Flags().BoolP("force", "f", false, "Build modules whose package.json declares another extension type")
	cmd.Flags().IntP("concurrency", "j", 0, "Maximum number of parallel builds (0 uses the CPU count)")
	cmd.Flags().StringP("config", "c", "", "Path to the compiler configuration document")
	cmd.Flags().String("output-mode", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().String("trace", "", "Write compile spans as JSON to this file")
	cmd.Flags().Bool("no-clean", false, "Keep existing files in the output root")
	return cmd
}
