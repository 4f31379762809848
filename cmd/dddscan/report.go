package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/service"
)

func reportCmd() *cobra.Command {
	opts := &commonOptions{}

	cmd := &cobra.Command{
		Use:   constants.CommandReport + " [path...]",
		Short: "Categorize PHP classes by their tactical role",
		Long: `Tag every class of the graph with its role (or interface, exception,
uncategorized, ambiguous) and list the forbidden relations found over the
produces, consumes and throws edges. Ambiguous classes are reported, not
rejected.

Examples:
  dddscan report src/
  dddscan report --format yaml -o report.yaml src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.addFlags(cmd, "text")
	return cmd
}

func runReport(cmd *cobra.Command, opts *commonOptions, args []string) error {
	if len(args) == 0 {
		return errorExit("no paths specified")
	}

	env, err := newRunEnv(cmd, opts, args, service.RequestReport, service.NewOutputFormatter())
	if err != nil {
		return err
	}
	defer env.Close()

	_, err = env.useCase.Report(cmd.Context(), env.req, env.format, env.out)
	env.writeMetrics()
	if err != nil {
		return errorExit("%v", err)
	}
	return nil
}
