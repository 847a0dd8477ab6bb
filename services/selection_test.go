package services

import (
	"testing"

	"indoor-nav-backend/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGraph - B는 401호 문, I는 401호 정보 포인트, W는 남자 화장실 문, X는 고립된 정점
func testGraph() models.Graph {
	return models.Graph{
		Vertices: []models.Vertex{
			{ID: "A", CX: 0, CY: 0},
			{ID: "B", CX: 3, CY: 0, ObjectName: "401"},
			{ID: "C", CX: 3, CY: 4},
			{ID: "W", CX: 0, CY: 4, ObjectName: "Male WC"},
			{ID: "I", CX: 10, CY: 10, ObjectName: "info_401"},
			{ID: "WI", CX: 5, CY: 5, ObjectName: "info_wc_male"},
			{ID: "X", CX: 50, CY: 50},
		},
		Edges: []models.Edge{
			{From: "A", To: "B"},
			{From: "B", To: "C"},
			{From: "A", To: "W"},
		},
	}
}

func testEnv() TransitionEnv {
	return TransitionEnv{Graph: testGraph(), Rooms: NewRoomDirectory(DefaultRooms()...)}
}

func vertex(t *testing.T, id string) models.Vertex {
	t.Helper()
	v, ok := testGraph().Vertex(id)
	require.True(t, ok, "vertex %s", id)
	return v
}

// apply - 이벤트를 순서대로 적용하고 마지막 효과를 돌려준다
func apply(s models.SelectionState, env TransitionEnv, events ...Event) (models.SelectionState, []Effect) {
	var effects []Effect
	for _, ev := range events {
		s, effects = Transition(s, ev, env)
	}
	return s, effects
}

func TestTransition_ArmAndPickBuildsRoute(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)

	s, _ = apply(s, env, ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "B")})
	assert.Equal(t, "B", s.Start)
	assert.Equal(t, models.ModeAwaitingEnd, s.Mode)
	assert.Empty(t, s.Path)

	s, _ = apply(s, env, PickVertex{Vertex: vertex(t, "W")})
	assert.Equal(t, "W", s.End)
	assert.Equal(t, models.ModeIdle, s.Mode)
	assert.Equal(t, []string{"B", "A", "W"}, vertexIDs(s.Path))
	assert.InDelta(t, 7.0, s.Distance, 1e-9)
	assert.Equal(t, uint64(1), s.RouteVersion)
}

func TestTransition_PickResolvesInfoPoints(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)

	s, _ = apply(s, env,
		ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "I")},
		PickVertex{Vertex: vertex(t, "WI")},
	)
	assert.Equal(t, "B", s.Start)
	assert.Equal(t, "W", s.End)
	assert.Equal(t, []string{"B", "A", "W"}, vertexIDs(s.Path))
}

func TestTransition_RepickingStartWithEndRecomputes(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s.Start, s.End = "B", "W"
	s = Recompute(s, env.Graph)
	require.True(t, s.HasPath())

	s, _ = apply(s, env, ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "C")})
	assert.Equal(t, "C", s.Start)
	assert.Equal(t, []string{"C", "B", "A", "W"}, vertexIDs(s.Path))
	assert.InDelta(t, 11.0, s.Distance, 1e-9)
}

func TestTransition_DuplicateGuardUsesResolvedIDs(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s, _ = apply(s, env, ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "B")})

	// I는 B로 해석되므로 도착으로 쓸 수 없다
	before := s
	s, effects := Transition(s, PickVertex{Vertex: vertex(t, "I")}, env)

	assert.Equal(t, SameEndpointMessage, s.ErrorMessage)
	assert.Equal(t, before.End, s.End)
	assert.Equal(t, before.Start, s.Start)
	assert.Equal(t, models.ModeAwaitingEnd, s.Mode)
	require.Len(t, effects, 1)
	assert.Equal(t, Effect{Kind: EffectSchedule, Purpose: TaskErrorClear, Token: s.ErrorToken}, effects[0])
}

func TestTransition_RepickSameRoleAllowed(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)

	s, _ = apply(s, env,
		ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "B")},
		ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "B")},
	)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, "B", s.Start)
}

func TestTransition_IdlePickInspects(t *testing.T) {
	env := testEnv()
	s, effects := Transition(models.NewSelectionState(0), PickVertex{Vertex: vertex(t, "I")}, env)

	assert.Nil(t, effects)
	require.NotNil(t, s.Inspected)
	assert.Equal(t, "I", s.Inspected.ID)
	assert.Equal(t, "B", s.InspectedRoutingID)
	assert.Empty(t, s.Start)
	assert.Empty(t, s.End)

	s, _ = Transition(s, CloseInspector{}, env)
	assert.Nil(t, s.Inspected)
	assert.Empty(t, s.InspectedRoutingID)
}

func TestTransition_Promote(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)

	s, _ = apply(s, env, PickVertex{Vertex: vertex(t, "I")}, PromoteToRole{Role: models.RoleStart})
	assert.Equal(t, "B", s.Start)
	assert.Equal(t, models.ModeAwaitingEnd, s.Mode)

	s, _ = apply(s, env, ArmSelection{Role: models.RoleEnd}, CloseInspector{})
	s, _ = apply(s, env, PickVertex{Vertex: vertex(t, "WI")})
	// 도착 선택 모드였으므로 상세 보기 대신 도착으로 지정됨
	assert.Equal(t, "W", s.End)
	assert.True(t, s.HasPath())

	// 상세 보기 후 도착으로 지정하면 경로 재계산
	s, _ = apply(s, env, PickVertex{Vertex: vertex(t, "C")}, PromoteToRole{Role: models.RoleEnd})
	assert.Equal(t, "C", s.End)
	assert.Equal(t, models.ModeIdle, s.Mode)
	assert.Equal(t, []string{"B", "C"}, vertexIDs(s.Path))
}

func TestTransition_PromoteRejectsOppositeEndpoint(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s, _ = apply(s, env, ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "B")})
	s.Mode = models.ModeIdle

	s, effects := apply(s, env, PickVertex{Vertex: vertex(t, "I")}, PromoteToRole{Role: models.RoleEnd})
	assert.Equal(t, SameEndpointMessage, s.ErrorMessage)
	assert.Empty(t, s.End)
	require.Len(t, effects, 1)
	assert.Equal(t, TaskErrorClear, effects[0].Purpose)
}

func TestTransition_PromoteWithoutInspectedIsNoop(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)

	next, effects := Transition(s, PromoteToRole{Role: models.RoleStart}, env)
	assert.Empty(t, cmp.Diff(s, next))
	assert.Nil(t, effects)
}

func TestTransition_ClearEndpointDiscardsPath(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s.Start, s.End = "B", "W"
	s = Recompute(s, env.Graph)
	require.True(t, s.HasPath())

	s, _ = Transition(s, ClearEndpoint{Role: models.RoleEnd}, env)
	assert.Equal(t, "B", s.Start)
	assert.Empty(t, s.End)
	assert.Empty(t, s.Path)
	assert.Zero(t, s.Distance)
}

func TestTransition_ClearRouteAndChangeFloor(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s.Start, s.End = "B", "W"
	s = Recompute(s, env.Graph)
	s, _ = apply(s, env, PickVertex{Vertex: vertex(t, "C")}, HoverStart{VertexID: "C"})

	cleared, effects := Transition(s, ClearRoute{}, env)
	assert.Equal(t, 0, cleared.FloorIndex)
	assert.Empty(t, cleared.Start)
	assert.Empty(t, cleared.End)
	assert.Empty(t, cleared.Path)
	assert.Nil(t, cleared.Inspected)
	assert.Empty(t, cleared.Hovered)
	assert.Equal(t, models.ModeIdle, cleared.Mode)
	assert.ElementsMatch(t, cancelTimers(), effects)

	moved, effects := Transition(s, ChangeFloor{Index: 1}, env)
	assert.Equal(t, 1, moved.FloorIndex)
	assert.Empty(t, moved.Start)
	assert.Empty(t, moved.Path)
	assert.ElementsMatch(t, cancelTimers(), effects)
}

func TestTransition_TooltipTokens(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)

	s, effects := Transition(s, HoverStart{VertexID: "I"}, env)
	require.Len(t, effects, 1)
	first := effects[0]
	assert.Equal(t, TaskTooltip, first.Purpose)
	assert.Equal(t, "I", first.VertexID)

	// 오래된 토큰은 무시
	s, _ = Transition(s, HoverStart{VertexID: "B"}, env)
	s, _ = Transition(s, RevealTooltip{VertexID: "I", Token: first.Token}, env)
	assert.Nil(t, s.Tooltip)

	s, _ = Transition(s, RevealTooltip{VertexID: "B", Token: s.TooltipToken}, env)
	require.NotNil(t, s.Tooltip)
	assert.Equal(t, models.Tooltip{X: 3, Y: 0, Label: "401"}, *s.Tooltip)

	s, effects = Transition(s, HoverEnd{}, env)
	assert.Nil(t, s.Tooltip)
	assert.Equal(t, []Effect{{Kind: EffectCancel, Purpose: TaskTooltip}}, effects)
}

func TestTransition_TooltipLabelUsesRoomName(t *testing.T) {
	env := testEnv()
	s, _ := Transition(models.NewSelectionState(0), HoverStart{VertexID: "I"}, env)
	s, _ = Transition(s, RevealTooltip{VertexID: "I", Token: s.TooltipToken}, env)

	require.NotNil(t, s.Tooltip)
	assert.Equal(t, "Dean 401", s.Tooltip.Label)
}

func TestTransition_HoverUnknownVertexIgnored(t *testing.T) {
	s := models.NewSelectionState(0)
	next, effects := Transition(s, HoverStart{VertexID: "nope"}, testEnv())

	assert.Empty(t, cmp.Diff(s, next))
	assert.Nil(t, effects)
}

func TestTransition_DismissErrorTokens(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s, _ = apply(s, env, ArmSelection{Role: models.RoleStart}, PickVertex{Vertex: vertex(t, "B")})

	s, _ = Transition(s, PickVertex{Vertex: vertex(t, "B")}, env)
	stale := s.ErrorToken
	s, _ = Transition(s, PickVertex{Vertex: vertex(t, "I")}, env)
	require.NotEqual(t, stale, s.ErrorToken)

	s, _ = Transition(s, DismissError{Token: stale}, env)
	assert.Equal(t, SameEndpointMessage, s.ErrorMessage)

	s, _ = Transition(s, DismissError{Token: s.ErrorToken}, env)
	assert.Empty(t, s.ErrorMessage)
}

func TestTransition_DoesNotMutateInput(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s.Start, s.End = "B", "W"
	s = Recompute(s, env.Graph)
	snapshot := s.Clone()

	_, _ = Transition(s, ClearEndpoint{Role: models.RoleStart}, env)
	_, _ = Transition(s, ArmSelection{Role: models.RoleEnd}, env)

	assert.Empty(t, cmp.Diff(snapshot, s))
}

func TestRecompute_Idempotent(t *testing.T) {
	g := testGraph()
	s := models.NewSelectionState(0)
	s.Start, s.End = "C", "W"

	once := Recompute(s, g)
	twice := Recompute(once, g)
	assert.Empty(t, cmp.Diff(once, twice))
	assert.Equal(t, uint64(1), twice.RouteVersion)

	// 강제로 다시 계산해도 같은 경로
	again := once
	computePath(&again, g)
	assert.Empty(t, cmp.Diff(once.Path, again.Path))
	assert.Equal(t, once.Distance, again.Distance)
}

func TestRecompute_SkipsWhileArmed(t *testing.T) {
	s := models.NewSelectionState(0)
	s.Start, s.End = "B", "W"
	s.Mode = models.ModeAwaitingEnd

	assert.Empty(t, Recompute(s, testGraph()).Path)
}

func TestRecompute_NoRouteIsStable(t *testing.T) {
	env := testEnv()
	s := models.NewSelectionState(0)
	s.Start, s.End = "B", "X"

	s = Recompute(s, env.Graph)
	assert.Empty(t, s.Path)
	assert.Zero(t, s.Distance)
	assert.Equal(t, uint64(1), s.RouteVersion)

	s, _ = Transition(s, HoverEnd{}, env)
	assert.Equal(t, uint64(1), s.RouteVersion)
}
