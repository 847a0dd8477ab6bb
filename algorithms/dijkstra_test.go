package algorithms

import (
	"sync"
	"testing"

	"indoor-nav-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle(withShortcut bool) models.Graph {
	g := models.Graph{
		Vertices: []models.Vertex{
			{ID: "A", CX: 0, CY: 0},
			{ID: "B", CX: 3, CY: 0},
			{ID: "C", CX: 3, CY: 4},
		},
		Edges: []models.Edge{{From: "A", To: "B"}, {From: "B", To: "C"}},
	}
	if withShortcut {
		g.Edges = append(g.Edges, models.Edge{From: "A", To: "C"})
	}
	return g
}

func ids(path []models.Vertex) []string {
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = v.ID
	}
	return out
}

func TestShortestPath_ViaCorner(t *testing.T) {
	path := ShortestPath("A", "C", triangle(false))

	assert.Equal(t, []string{"A", "B", "C"}, ids(path))
	assert.InDelta(t, 7.0, PathDistance(path), 1e-9)
}

func TestShortestPath_DirectEdgeWins(t *testing.T) {
	path := ShortestPath("A", "C", triangle(true))

	assert.Equal(t, []string{"A", "C"}, ids(path))
	assert.InDelta(t, 5.0, PathDistance(path), 1e-9)
}

func TestShortestPath_Identity(t *testing.T) {
	path := ShortestPath("B", "B", triangle(false))

	require.Len(t, path, 1)
	assert.Equal(t, "B", path[0].ID)
	assert.Zero(t, PathDistance(path))
}

func TestShortestPath_Symmetry(t *testing.T) {
	g := models.Graph{
		Vertices: []models.Vertex{
			{ID: "a", CX: 0, CY: 0},
			{ID: "b", CX: 10, CY: 0},
			{ID: "c", CX: 10, CY: 10},
			{ID: "d", CX: 0, CY: 10},
			{ID: "e", CX: 5, CY: 5},
		},
		Edges: []models.Edge{
			{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "d"},
			{From: "d", To: "a"}, {From: "a", To: "e"}, {From: "e", To: "c"},
		},
	}

	forward := ShortestPath("a", "c", g)
	backward := ShortestPath("c", "a", g)
	require.NotEmpty(t, forward)

	reversed := make([]string, len(backward))
	for i, v := range backward {
		reversed[len(backward)-1-i] = v.ID
	}
	assert.Equal(t, ids(forward), reversed)
	assert.InDelta(t, PathDistance(forward), PathDistance(backward), 1e-9)
}

func TestShortestPath_Disconnected(t *testing.T) {
	g := models.Graph{
		Vertices: []models.Vertex{
			{ID: "a", CX: 0, CY: 0}, {ID: "b", CX: 1, CY: 0},
			{ID: "x", CX: 5, CY: 5}, {ID: "y", CX: 6, CY: 5},
		},
		Edges: []models.Edge{{From: "a", To: "b"}, {From: "x", To: "y"}},
	}

	assert.Empty(t, ShortestPath("a", "y", g))
	assert.Zero(t, PathDistance(ShortestPath("a", "y", g)))
}

func TestShortestPath_MissingEndpoints(t *testing.T) {
	g := triangle(false)

	assert.Empty(t, ShortestPath("nope", "C", g))
	assert.Empty(t, ShortestPath("A", "nope", g))
	assert.Empty(t, ShortestPath("", "", g))
}

func TestShortestPath_SkipsDanglingEdges(t *testing.T) {
	g := triangle(false)
	g.Edges = append(g.Edges, models.Edge{From: "A", To: "ghost"}, models.Edge{From: "ghost", To: "C"})

	assert.Equal(t, []string{"A", "B", "C"}, ids(ShortestPath("A", "C", g)))
}

func TestShortestPath_DuplicateEdgesHarmless(t *testing.T) {
	g := triangle(false)
	g.Edges = append(g.Edges, models.Edge{From: "B", To: "A"}, models.Edge{From: "C", To: "B"})

	assert.Equal(t, []string{"A", "B", "C"}, ids(ShortestPath("A", "C", g)))
}

func TestShortestPath_Concurrent(t *testing.T) {
	g := triangle(true)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"A", "C"}, ids(ShortestPath("A", "C", g)))
		}()
	}
	wg.Wait()
}

func TestPathDistance_ShortPaths(t *testing.T) {
	assert.Zero(t, PathDistance(nil))
	assert.Zero(t, PathDistance([]models.Vertex{{ID: "a", CX: 4, CY: 4}}))
}

func TestEstimateMinutes(t *testing.T) {
	assert.Equal(t, 0, EstimateMinutes(0, DefaultUnitsPerMinute))
	assert.Equal(t, 1, EstimateMinutes(0.5, DefaultUnitsPerMinute))
	assert.Equal(t, 1, EstimateMinutes(100, DefaultUnitsPerMinute))
	assert.Equal(t, 2, EstimateMinutes(101, DefaultUnitsPerMinute))
	assert.Equal(t, 3, EstimateMinutes(250, 0))
}

func TestRoundDistance(t *testing.T) {
	assert.Equal(t, 7.0, RoundDistance(7.4))
	assert.Equal(t, 8.0, RoundDistance(7.5))
}
