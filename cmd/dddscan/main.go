package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/internal/version"
	"github.com/ludo-technologies/dddscan/service"
)

var (
	// Version information (set via ldflags during build)
	Version = version.Version
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *CheckExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			// Report already printed
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(constants.ExitError)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "dddscan - tactical DDD architecture checker for PHP",
		Long: `dddscan reads the role tags (aggregate root, entity, value object, ...)
of PHP classes, builds the graph of their implements, extends, consumes,
throws and produces relations, and reports every relation the tactical
DDD rules forbid.`,
		Version: Version,
	}

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			asJSON, _ := cmd.Flags().GetBool("json")
			switch {
			case asJSON:
				if err := service.WriteJSON(cmd.OutOrStdout(), version.Info()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
			case verbose:
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.ToolName, version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	cmd.Flags().Bool("json", false, "Print build information as JSON")
	return cmd
}
