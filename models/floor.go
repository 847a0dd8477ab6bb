package models

import "strings"

// InfoPrefix - 정보 포인트(아이콘) 태그 접두사
const InfoPrefix = "info_"

// ========================================
// 그래프 데이터
// ========================================

// Vertex - 층 그래프의 한 지점
type Vertex struct {
	ID         string  `json:"id"`
	CX         float64 `json:"cx"`
	CY         float64 `json:"cy"`
	ObjectName string  `json:"objectName,omitempty"` // 문/방 번호, info_ 태그, 또는 빈 값(경유점)
}

// IsInfoPoint - info_ 태그가 붙은 정보 포인트인지 여부
func (v Vertex) IsInfoPoint() bool {
	return strings.HasPrefix(v.ObjectName, InfoPrefix)
}

// InfoKey - 접두사를 제거한 태그 (info_401 → 401)
func (v Vertex) InfoKey() string {
	return strings.TrimPrefix(v.ObjectName, InfoPrefix)
}

// Edge - 무방향 연결 (가중치는 조회 시 좌표로 계산)
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph - 층별 정점/간선 데이터
type Graph struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`
}

// Vertex - ID로 정점 조회
func (g Graph) Vertex(id string) (Vertex, bool) {
	for _, v := range g.Vertices {
		if v.ID == id {
			return v, true
		}
	}
	return Vertex{}, false
}

// FindByObjectName - 태그가 정확히 일치하는 첫 정점
func (g Graph) FindByObjectName(name string) (Vertex, bool) {
	for _, v := range g.Vertices {
		if v.ObjectName == name {
			return v, true
		}
	}
	return Vertex{}, false
}

// Neighbors - 인접 리스트 생성. 존재하지 않는 정점을 가리키는 간선은 건너뛴다.
func (g Graph) Neighbors() map[string][]string {
	known := make(map[string]bool, len(g.Vertices))
	for _, v := range g.Vertices {
		known[v.ID] = true
	}

	adj := make(map[string][]string, len(g.Vertices))
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		if e.From != e.To {
			adj[e.To] = append(adj[e.To], e.From)
		}
	}
	return adj
}

// ========================================
// 층 정보
// ========================================

// Transform - 층별 좌표 보정 (균일 배율 + 오프셋)
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// IdentityTransform - 보정 없음
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Apply - 정점 좌표에 보정 적용. Scale 0은 1로 취급한다.
func (t Transform) Apply(v Vertex) Vertex {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	v.CX = v.CX*scale + t.OffsetX
	v.CY = v.CY*scale + t.OffsetY
	return v
}

// Floor - 건물의 한 층
type Floor struct {
	ID          int       `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	ShortName   string    `json:"short_name"`
	Description string    `json:"description"`
	PlanPath    string    `json:"plan_path"`
	Graph       Graph     `json:"-"`
	Transform   Transform `json:"transform"`
}

// ActiveGraph - 좌표 보정이 적용된 그래프 사본
func (f Floor) ActiveGraph() Graph {
	vertices := make([]Vertex, len(f.Graph.Vertices))
	for i, v := range f.Graph.Vertices {
		vertices[i] = f.Transform.Apply(v)
	}
	edges := make([]Edge, len(f.Graph.Edges))
	copy(edges, f.Graph.Edges)

	return Graph{Vertices: vertices, Edges: edges}
}

// FloorSummary - 층 목록 응답용
type FloorSummary struct {
	Index       int    `json:"index"`
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	Description string `json:"description"`
	PlanPath    string `json:"plan_path"`
	VertexCount int    `json:"vertex_count"`
}
