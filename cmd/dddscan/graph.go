package main

import (
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/constants"
	"github.com/ludo-technologies/dddscan/service"
)

func graphCmd() *cobra.Command {
	opts := &commonOptions{}
	var (
		edges         []string
		rankDir       string
		noLegend      bool
		noClusters    bool
		forbiddenOnly bool
	)

	cmd := &cobra.Command{
		Use:   constants.CommandGraph + " [path...]",
		Short: "Print the reduced class dependency graph",
		Long: `Print the nodes and typed relations of the reduced graph, each relation
flagged when the rules forbid it.

Examples:
  # Graphviz output
  dddscan graph src/ | dot -Tsvg > graph.svg

  # Only produces and consumes edges, as JSON
  dddscan graph --edges produces,consumes --format json src/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errorExit("no paths specified")
			}

			formatter := service.NewOutputFormatter().WithDOTConfig(&service.DOTFormatterConfig{
				ClusterNamespaces: !noClusters,
				ShowLegend:        !noLegend,
				ForbiddenOnly:     forbiddenOnly,
				RankDir:           rankDir,
			})

			env, err := newRunEnv(cmd, opts, args, service.RequestCheck, formatter)
			if err != nil {
				return err
			}
			defer env.Close()

			if cmd.Flags().Changed("edges") {
				parsed := make([]domain.Edge, 0, len(edges))
				for _, name := range edges {
					edge, err := domain.ParseEdge(name)
					if err != nil {
						return errorExit("%v", err)
					}
					parsed = append(parsed, edge)
				}
				env.req.Edges = parsed
			}

			_, err = env.useCase.Graph(cmd.Context(), env.req, env.format, env.out)
			env.writeMetrics()
			if err != nil {
				return errorExit("%v", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.addFlags(cmd, "dot")
	cmd.Flags().StringSliceVar(&edges, "edges", nil,
		"Edges to keep: implements,extends,consumes,throws,produces (default from config)")
	cmd.Flags().StringVar(&rankDir, "rank-dir", "LR",
		"Graphviz layout direction: TB, LR, BT, RL")
	cmd.Flags().BoolVar(&noLegend, "no-legend", false,
		"Omit the legend from DOT output")
	cmd.Flags().BoolVar(&noClusters, "no-clusters", false,
		"Do not group classes by namespace in DOT output")
	cmd.Flags().BoolVar(&forbiddenOnly, "forbidden-only", false,
		"Only draw forbidden relations in DOT output")

	return cmd
}
