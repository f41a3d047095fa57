package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/fleet-explore/internal/core"
)

// unknownEstimate is the cost assumed for a cell nobody has seen yet, roughly
// the middle of each type's generated terrain band.
var unknownEstimate = core.Costs{160, 300, 450}

// CellCost returns the cost a robot of type t is expected to pay in c.
func CellCost(m Map, t core.RobotType, c core.Coord) int {
	if !m.Known(c) {
		return unknownEstimate.Of(t)
	}
	return m.Cost(c, t)
}

// StepCost is the expected progress of one move from a to its neighbour b:
// half the cost of leaving a plus the full cost of entering b.
func StepCost(m Map, t core.RobotType, a, b core.Coord) int {
	return CellCost(m, t, a)/2 + CellCost(m, t, b)
}

// gridNode for priority queue.
type gridNode struct {
	c      core.Coord
	g      int // Cost so far
	f      int // g + h
	parent *gridNode
	index  int // heap index
}

// gridHeap implements heap.Interface with a coordinate tie-break so that
// equal-cost searches expand in a stable order.
type gridHeap []*gridNode

func (h gridHeap) Len() int { return len(h) }
func (h gridHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].c.Less(h[j].c)
}
func (h gridHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *gridHeap) Push(x any) {
	n := x.(*gridNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *gridHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// minStep returns a lower bound on StepCost for type t over the whole map.
func minStep(m Map, t core.RobotType) int {
	floor := unknownEstimate.Of(t)
	for x := 0; x < m.Size(); x++ {
		for y := 0; y < m.Size(); y++ {
			c := core.Coord{X: x, Y: y}
			if m.Known(c) && m.Passable(c, t) {
				floor = min(floor, m.Cost(c, t))
			}
		}
	}
	return floor/2 + floor
}

// ShortestPath finds the cheapest route from start to goal over the known map
// for robot type t. The result includes both ends; nil means unreachable.
// Unknown cells are planned through at their estimated cost.
func ShortestPath(m Map, t core.RobotType, start, goal core.Coord) []core.Coord {
	if !m.In(start) || !m.Passable(goal, t) {
		return nil
	}
	if start == goal {
		return []core.Coord{start}
	}

	step := minStep(m, t)
	heuristic := func(c core.Coord) int { return c.Manhattan(goal) * step }

	open := &gridHeap{}
	heap.Init(open)
	heap.Push(open, &gridNode{c: start, f: heuristic(start)})
	closed := make(map[core.Coord]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*gridNode)
		if current.c == goal {
			return reconstructPath(current)
		}
		if closed[current.c] {
			continue
		}
		closed[current.c] = true

		for _, n := range neighbors(m, current.c) {
			if closed[n] || !m.Passable(n, t) {
				continue
			}
			g := current.g + StepCost(m, t, current.c, n)
			heap.Push(open, &gridNode{c: n, g: g, f: g + heuristic(n), parent: current})
		}
	}
	return nil
}

// CostMap runs a uniform-cost search from start and returns the cheapest
// expected cost and predecessor of every reachable cell.
type CostMap struct {
	Start core.Coord
	Cost  map[core.Coord]int
	prev  map[core.Coord]core.Coord
}

// ComputeCostMap explores every cell reachable from start for robot type t.
func ComputeCostMap(m Map, t core.RobotType, start core.Coord) *CostMap {
	cm := &CostMap{
		Start: start,
		Cost:  map[core.Coord]int{start: 0},
		prev:  make(map[core.Coord]core.Coord),
	}
	open := &gridHeap{}
	heap.Push(open, &gridNode{c: start})
	closed := make(map[core.Coord]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*gridNode)
		if closed[current.c] {
			continue
		}
		closed[current.c] = true

		for _, n := range neighbors(m, current.c) {
			if closed[n] || !m.Passable(n, t) {
				continue
			}
			g := current.g + StepCost(m, t, current.c, n)
			if old, ok := cm.Cost[n]; ok && old <= g {
				continue
			}
			cm.Cost[n] = g
			cm.prev[n] = current.c
			heap.Push(open, &gridNode{c: n, g: g, f: g})
		}
	}
	return cm
}

// Reachable reports whether the search reached c.
func (cm *CostMap) Reachable(c core.Coord) bool {
	_, ok := cm.Cost[c]
	return ok
}

// PathTo returns the route from the search start to c, nil if unreachable.
func (cm *CostMap) PathTo(c core.Coord) []core.Coord {
	if !cm.Reachable(c) {
		return nil
	}
	path := []core.Coord{c}
	for c != cm.Start {
		c = cm.prev[c]
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func reconstructPath(node *gridNode) []core.Coord {
	var path []core.Coord
	for n := node; n != nil; n = n.parent {
		path = append([]core.Coord{n.c}, path...)
	}
	return path
}
