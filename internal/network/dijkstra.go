package network

import (
	"container/heap"
)

type pqItem struct {
	id   string
	dist float64
}

type priorityQueue []pqItem

func (q priorityQueue) Len() int            { return len(q) }
func (q priorityQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q priorityQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x interface{}) { *q = append(*q, x.(pqItem)) }
func (q *priorityQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// ShortestPath runs Dijkstra from 'from' to 'to' and returns the node path
// and its total weight in meters. Stale queue entries are skipped rather
// than decreased in place.
func ShortestPath(g *Graph, from, to string) ([]string, float64, error) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, 0, ErrNodeNotFound
	}
	if from == to {
		return []string{from}, 0, nil
	}

	dist := map[string]float64{from: 0}
	prev := map[string]string{}
	done := map[string]bool{}

	q := &priorityQueue{{id: from, dist: 0}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(pqItem)
		if done[cur.id] {
			continue
		}
		done[cur.id] = true
		if cur.id == to {
			break
		}
		for _, e := range g.Neighbors(cur.id) {
			nd := cur.dist + e.Weight
			if old, ok := dist[e.To]; !ok || nd < old {
				dist[e.To] = nd
				prev[e.To] = cur.id
				heap.Push(q, pqItem{id: e.To, dist: nd})
			}
		}
	}

	if !done[to] {
		return nil, 0, &NoPathError{From: from, To: to}
	}
	path := []string{to}
	for path[len(path)-1] != from {
		path = append(path, prev[path[len(path)-1]])
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[to], nil
}

// ShortestDistance is ShortestPath without path reconstruction.
func ShortestDistance(g *Graph, from, to string) (float64, error) {
	_, d, err := ShortestPath(g, from, to)
	return d, err
}
