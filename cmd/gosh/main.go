package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tympanix/gosh/internal/config"
	"github.com/tympanix/gosh/internal/shell"
	"github.com/tympanix/gosh/internal/util"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.New()
	status := 0

	var configFile, colorMode, command string
	var quietMode, verboseMode bool

	var rootCmd = &cobra.Command{
		Use:   "gosh",
		Short: "An interactive line-oriented shell",
		Long: "An interactive line-oriented shell with built-in cd, pwd, ls, cat, cp, mv, rm, mkdir, echo and exit\n\n" +
			"Exit codes:\n  0   - End of input or exit without a code\n  n   - Code passed to exit\n  1   - Startup error",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("config") {
				configFile = cfg.ConfigFile
			}
			if err := cfg.Load(configFile); err != nil {
				return err
			}
			if cmd.Flags().Changed("color") {
				mode, err := config.ParseColorMode(colorMode)
				if err != nil {
					return err
				}
				cfg.Color = mode
			}

			var logger util.Logger
			if quietMode {
				logger = util.NewQuietLogger()
			} else if verboseMode {
				logger = util.NewVerboseLogger(stderr)
			} else {
				logger = util.NewLogger(stderr)
			}

			isTTY := util.IsATTY()
			sh, err := shell.New(stdin, stdout, stderr, shell.Options{
				Config:       cfg,
				Logger:       logger,
				Color:        cfg.UseColor(isTTY),
				Quiet:        quietMode || command != "",
				ShowProgress: !quietMode && isTTY,
			})
			if err != nil {
				return err
			}

			ctx := context.Background()
			if command != "" {
				status, _ = sh.Execute(ctx, command)
				return nil
			}
			status, err = sh.Run(ctx)
			return err
		},
	}

	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to the TOML config file (defaults to GOSH_CONFIG env var or ~/.config/gosh/config.toml)")
	rootCmd.Flags().StringVar(&colorMode, "color", "auto", "Colorize the prompt and errors: auto, always, or never")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "Run a single command line and exit with its status")
	rootCmd.Flags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress the prompt and diagnostics")
	rootCmd.Flags().BoolVarP(&verboseMode, "verbose", "v", false, "Trace dispatch decisions to stderr")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  "Print the version number of gosh",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "gosh version %s\n", version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "gosh: %v\n", err)
		return 1
	}
	return status
}
