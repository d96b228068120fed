// Package batch loads HCL route plans and runs them on a worker pool.
//
// A plan declares maps and the routes to compute on them:
//
//	map "warehouse" {
//	  file = "warehouse.env"
//	}
//
//	route "dock-to-shelf" {
//	  map  = "warehouse"
//	  from = [0, 0]
//	  to   = [4, 4]
//	}
//
// Map files are resolved relative to the plan file. Routes on the same map
// share one read-only grid.
package batch
