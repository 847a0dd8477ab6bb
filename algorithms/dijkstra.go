package algorithms

import (
	"container/heap"
	"math"

	"indoor-nav-backend/models"
)

// DefaultUnitsPerMinute - 도보 속도 가정 (좌표 단위 / 분)
const DefaultUnitsPerMinute = 100.0

// queueItem - 우선순위 큐 항목
type queueItem struct {
	id    string
	dist  float64
	index int // for heap
}

// PriorityQueue - 거리 기준 최소 힙
type PriorityQueue []*queueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].dist < pq[j].dist
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*queueItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// Distance - 두 정점 사이 유클리드 거리
func Distance(a, b models.Vertex) float64 {
	dx := a.CX - b.CX
	dy := a.CY - b.CY
	return math.Sqrt(dx*dx + dy*dy)
}

// ShortestPath - Dijkstra 최단 경로. 시작/도착이 없거나 연결되지 않으면 nil.
// 그래프는 읽기만 하므로 동시에 호출해도 안전하다.
func ShortestPath(startID, endID string, g models.Graph) []models.Vertex {
	index := make(map[string]models.Vertex, len(g.Vertices))
	for _, v := range g.Vertices {
		index[v.ID] = v
	}

	if _, ok := index[startID]; !ok {
		return nil
	}
	end, ok := index[endID]
	if !ok {
		return nil
	}
	if startID == endID {
		return []models.Vertex{end}
	}

	adj := g.Neighbors()
	dist := map[string]float64{startID: 0}
	prev := make(map[string]string)
	visited := make(map[string]bool, len(index))

	openSet := make(PriorityQueue, 0, len(index))
	heap.Init(&openSet)
	heap.Push(&openSet, &queueItem{id: startID, dist: 0})

	reached := false
	for openSet.Len() > 0 {
		current := heap.Pop(&openSet).(*queueItem)
		if visited[current.id] {
			continue // 이미 확정된 정점의 오래된 항목
		}
		visited[current.id] = true

		// 도착 정점이 확정되면 종료
		if current.id == endID {
			reached = true
			break
		}

		from := index[current.id]
		for _, next := range adj[current.id] {
			if visited[next] {
				continue
			}
			tentative := current.dist + Distance(from, index[next])
			if known, ok := dist[next]; ok && tentative >= known {
				continue
			}
			dist[next] = tentative
			prev[next] = current.id
			heap.Push(&openSet, &queueItem{id: next, dist: tentative})
		}
	}

	if !reached {
		return nil
	}
	return reconstructPath(endID, prev, index)
}

// reconstructPath - 선행 정점을 따라 시작→도착 순서로 복원
func reconstructPath(endID string, prev map[string]string, index map[string]models.Vertex) []models.Vertex {
	var path []models.Vertex
	for id := endID; id != ""; id = prev[id] {
		path = append(path, index[id])
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathDistance - 연속 정점 간 거리 합. 정점 1개 이하면 0.
func PathDistance(path []models.Vertex) float64 {
	if len(path) <= 1 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(path)-1; i++ {
		total += Distance(path[i], path[i+1])
	}
	return total
}

// RoundDistance - 표시용 거리 (가장 가까운 단위)
func RoundDistance(d float64) float64 {
	return math.Round(d)
}

// EstimateMinutes - 예상 도보 시간 (올림). 0이 아닌 경로는 최소 1분.
func EstimateMinutes(distance, unitsPerMinute float64) int {
	if distance <= 0 {
		return 0
	}
	if unitsPerMinute <= 0 {
		unitsPerMinute = DefaultUnitsPerMinute
	}
	return int(math.Ceil(distance / unitsPerMinute))
}
