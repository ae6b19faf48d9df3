package pathfinding

// frontierQueue is a binary min-heap over the frontier set, keyed by node
// rank (cost + heuristic). Ties fall to heap order, which is deterministic
// for a fixed insertion sequence. Implements container/heap.
type frontierQueue []*searchNode

func (pq frontierQueue) Len() int {
	return len(pq)
}

func (pq frontierQueue) Less(i, j int) bool {
	return pq[i].rank() < pq[j].rank()
}

func (pq frontierQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *frontierQueue) Push(x interface{}) {
	n := len(*pq)
	no := x.(*searchNode)
	no.index = n
	*pq = append(*pq, no)
}

func (pq *frontierQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	no := old[n-1]
	no.index = -1
	*pq = old[0 : n-1]
	return no
}
