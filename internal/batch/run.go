package batch

import (
	"context"
	"sync"

	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/planner"
)

// Outcome is the result of one route. Exactly one of Result and Err is set.
type Outcome struct {
	Route  Route
	Result *planner.Result
	Err    error
}

// Run plans every route of plan using up to workers goroutines. Outcomes
// are returned in declaration order. Routes not started before ctx is
// cancelled report ctx.Err().
func Run(ctx context.Context, p *planner.Planner, plan *Plan, workers int) []Outcome {
	logger := ctxlog.FromContext(ctx)
	routes := plan.Routes
	if workers < 1 {
		workers = 1
	}
	if workers > len(routes) {
		workers = len(routes)
	}

	outcomes := make([]Outcome, len(routes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				r := routes[idx]
				res, err := p.Plan(ctx, planner.Request{Map: r.Map, Start: r.Start, End: r.End})
				outcomes[idx] = Outcome{Route: r, Result: res, Err: err}
			}
		}()
	}

	logger.Debug("Batch started", "routes", len(routes), "workers", workers)
	next := 0
feed:
	for ; next < len(routes); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(routes); i++ {
		outcomes[i] = Outcome{Route: routes[i], Err: ctx.Err()}
	}

	logger.Debug("Batch finished", "routes", len(routes), "dispatched", next)
	return outcomes
}

// Failed counts the outcomes that carry an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
