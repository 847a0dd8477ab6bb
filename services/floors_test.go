package services

import (
	"errors"
	"testing"

	"indoor-nav-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_FromManifest(t *testing.T) {
	catalog, err := LoadCatalog("testdata/floors.hcl")
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())

	lobby, err := catalog.Floor(0)
	require.NoError(t, err)
	assert.Equal(t, "lobby", lobby.Key)
	assert.Equal(t, "Lobby", lobby.Name)
	assert.Equal(t, "L", lobby.ShortName)
	assert.Equal(t, models.IdentityTransform(), lobby.Transform)
	assert.Len(t, lobby.Graph.Vertices, 3)

	offices, err := catalog.Floor(1)
	require.NoError(t, err)
	assert.Equal(t, 4, offices.ID)
	assert.Equal(t, models.Transform{Scale: 2, OffsetX: 10, OffsetY: 20}, offices.Transform)
}

func TestFloorCatalog_ActiveGraphAppliesTransform(t *testing.T) {
	catalog, err := LoadCatalog("testdata/floors.hcl")
	require.NoError(t, err)

	graph, err := catalog.ActiveGraph(1)
	require.NoError(t, err)

	b, ok := graph.Vertex("B")
	require.True(t, ok)
	assert.Equal(t, 16.0, b.CX)
	assert.Equal(t, 20.0, b.CY)

	// 원본 그래프는 그대로
	raw, _ := catalog.Floor(1)
	rawB, _ := raw.Graph.Vertex("B")
	assert.Equal(t, 3.0, rawB.CX)

	// 캐시된 결과도 동일
	again, err := catalog.ActiveGraph(1)
	require.NoError(t, err)
	assert.Equal(t, graph, again)
}

func TestFloorCatalog_UnknownFloor(t *testing.T) {
	catalog := NewFloorCatalog(models.Floor{Name: "only"})

	_, err := catalog.Floor(3)
	assert.True(t, errors.Is(err, ErrUnknownFloor))

	_, err = catalog.ActiveGraph(-1)
	assert.True(t, errors.Is(err, ErrUnknownFloor))
}

func TestFloorCatalog_Summaries(t *testing.T) {
	catalog, err := LoadCatalog("testdata/floors.hcl")
	require.NoError(t, err)

	summaries := catalog.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[1].Index)
	assert.Equal(t, "Offices", summaries[1].Name)
	assert.Equal(t, 3, summaries[1].VertexCount)
}

func TestParseManifest_Errors(t *testing.T) {
	_, err := ParseManifest([]byte(`floor "a" {`), "broken.hcl")
	assert.Error(t, err)

	_, err = ParseManifest([]byte(``), "empty.hcl")
	assert.True(t, errors.Is(err, ErrEmptyManifest))

	_, err = ParseManifest([]byte(`floor "a" { name = "A" }`), "missing.hcl")
	assert.Error(t, err, "id and graph are required")

	dup := `
floor "a" {
  id    = 0
  name  = "A"
  graph = "a.json"
}
floor "a" {
  id    = 1
  name  = "A again"
  graph = "a.json"
}
`
	_, err = ParseManifest([]byte(dup), "dup.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate floor block")
}

func TestLoadCatalog_MissingGraph(t *testing.T) {
	_, err := LoadCatalog("testdata/does-not-exist.hcl")
	assert.Error(t, err)
}

func TestLoadCatalog_SampleData(t *testing.T) {
	catalog, err := LoadCatalog("../data/floors.hcl")
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	floor, err := catalog.Floor(1)
	require.NoError(t, err)
	assert.Equal(t, 0.71, floor.Transform.Scale)
}
