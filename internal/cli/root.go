package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gravitas-games/robotplanner/internal/config"
	"github.com/gravitas-games/robotplanner/internal/envfile"
	"github.com/gravitas-games/robotplanner/internal/planner"
	"github.com/gravitas-games/robotplanner/internal/render"
	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// NewRootCommand builds the robotplanner command tree. Route output goes to
// stdout and logs go to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	var graphics bool

	root := &cobra.Command{
		Use:   "robotplanner [-g|--graphics] FILE ORIGIN_X ORIGIN_Y DEST_X DEST_Y",
		Short: "Find a shortest path between two cells of an environment file",
		Long: `Uses A* to find a shortest path from the origin to the destination in the
given environment. Without --graphics the route is printed as direction
letters (U, D, L, R). Negative coordinates must follow "--".`,
		Example: `  robotplanner maps/warehouse.env 0 0 5 4
  robotplanner -g maps/warehouse.env 0 0 5 4`,
		Args:          exactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRoute(cmd, args, graphics)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%v\nUsage: %s", err, cmd.UseLine())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath, "path to the YAML configuration (env CONFIG_PATH)")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	root.Flags().BoolVarP(&graphics, "graphics", "g", false, "draw the route as an ASCII map")

	root.AddCommand(newBatchCommand(a), newServeCommand(a))
	return root
}

var coordNames = [4]string{"ORIGIN_X", "ORIGIN_Y", "DEST_X", "DEST_Y"}

func (a *app) runRoute(cmd *cobra.Command, args []string, graphics bool) error {
	var coords [4]int
	for i, s := range args[1:] {
		v, err := strconv.Atoi(s)
		if err != nil {
			return usageError("%s must be an integer, got %q", coordNames[i], s)
		}
		coords[i] = v
	}
	start := grid.Cell{X: coords[0], Y: coords[1]}
	end := grid.Cell{X: coords[2], Y: coords[3]}

	g, err := envfile.Load(args[0])
	if err != nil {
		return failure(err)
	}

	path, _, err := planner.Route(cmd.Context(), g, start, end)
	if err != nil {
		return failure(err)
	}

	if graphics {
		if err := render.ASCII(a.stdout, g, path, a.cfg.Render.Glyphs()); err != nil {
			return &ExitError{Code: 1, Message: fmt.Sprintf("failed to write map: %v", err)}
		}
		return nil
	}

	dirs, err := render.FormatDirections(path)
	if err != nil {
		return failure(err)
	}
	fmt.Fprintln(a.stdout, dirs)
	return nil
}
