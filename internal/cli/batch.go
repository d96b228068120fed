package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/robotplanner/internal/batch"
	"github.com/gravitas-games/robotplanner/internal/planner"
	"github.com/gravitas-games/robotplanner/internal/routecache"
)

func newBatchCommand(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch PLAN.hcl",
		Short: "Plan every route declared in an HCL plan file",
		Example: `  robotplanner batch plans/warehouse.hcl
  robotplanner batch --workers 8 plans/warehouse.hcl`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				a.cfg.Batch.Workers = workers
			}
			if a.cfg.Batch.Workers < 1 {
				return usageError("--workers must be at least 1, got %d", a.cfg.Batch.Workers)
			}
			return a.runBatch(cmd, args[0])
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent route workers (default from config)")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	plan, err := batch.Load(ctx, path)
	if err != nil {
		return failure(err)
	}

	// Repeated routes within one plan are answered once.
	p := planner.New(plan.Maps, routecache.NewMemory())
	outcomes := batch.Run(ctx, p, plan, a.cfg.Batch.Workers)

	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(a.stdout, "%s: %s\n", o.Route.Name, planner.Message(o.Err))
			continue
		}
		fmt.Fprintf(a.stdout, "%s: %s\n", o.Route.Name, o.Result.Directions)
	}

	if failed := batch.Failed(outcomes); failed > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d routes failed", failed, len(outcomes))}
	}
	a.logger.Info("Batch complete", "routes", len(outcomes))
	return nil
}
