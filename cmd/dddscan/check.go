package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/service"
)

func checkCmd() *cobra.Command {
	opts := &commonOptions{}

	cmd := &cobra.Command{
		Use:   constants.CommandCheck + " [path...]",
		Short: "Check PHP classes against the tactical DDD rules",
		Long: `Check that every class carries exactly one role tag and that no
relation between tagged classes is forbidden.

Exit codes:
  0 - No violations
  1 - Violations found
  2 - Analysis error (ambiguous tag, structural error, bad configuration)

Examples:
  # Check the src folder
  dddscan check src/

  # JSON output for machine parsing
  dddscan check --json src/

  # Ignore the cache and log every file
  dddscan check --no-cache -v src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	opts.addFlags(cmd, "text")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *commonOptions, args []string) error {
	if len(args) == 0 {
		return errorExit("no paths specified")
	}

	env, err := newRunEnv(cmd, opts, args, service.RequestCheck, service.NewOutputFormatter())
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := env.useCase.Check(cmd.Context(), env.req, env.format, env.out)
	env.writeMetrics()
	if err != nil {
		return errorExit("%v", err)
	}

	if !result.Passed {
		return &CheckExitError{Code: constants.ExitViolations}
	}
	return nil
}
