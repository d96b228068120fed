// Package astar finds shortest paths on a grid.Grid with the A* algorithm.
//
// Movement is 4-directional with a uniform step cost of 1 and the search is
// guided by the Manhattan distance. Each call to Search owns its frontier,
// cost and parent maps, so one Grid may be searched from many goroutines.
package astar
