package services

import (
	"fmt"
	"log"
	"reflect"
	"sync"
	"time"

	"indoor-nav-backend/algorithms"
	"indoor-nav-backend/models"
)

// EventRecorder - 내비게이션 이벤트 기록 (LogBuffer가 구현)
type EventRecorder interface {
	Record(entry models.NavigationLog)
}

// NavigatorOptions - Navigator 설정. 0 값은 기본값 사용.
type NavigatorOptions struct {
	SessionID      string
	Rooms          RoomLookup
	Scheduler      Scheduler
	Recorder       EventRecorder
	ErrorDisplay   time.Duration
	TooltipDelay   time.Duration
	UnitsPerMinute float64

	// OnChange - 상태가 바뀔 때마다 호출 (락을 잡은 채 호출되므로 Navigator를 다시 호출하면 안 됨)
	OnChange func(models.StateSnapshot)
}

const (
	defaultErrorDisplay = 3 * time.Second
	defaultTooltipDelay = 200 * time.Millisecond
)

// Navigator - 한 세션의 경로 선택 상태 소유자
type Navigator struct {
	mu      sync.Mutex
	catalog *FloorCatalog
	graph   models.Graph
	state   models.SelectionState
	opts    NavigatorOptions
	closed  bool
}

// NewNavigator - floorIndex 층에서 시작하는 세션 생성
func NewNavigator(catalog *FloorCatalog, floorIndex int, opts NavigatorOptions) (*Navigator, error) {
	graph, err := catalog.ActiveGraph(floorIndex)
	if err != nil {
		return nil, err
	}

	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler()
	}
	if opts.ErrorDisplay <= 0 {
		opts.ErrorDisplay = defaultErrorDisplay
	}
	if opts.TooltipDelay <= 0 {
		opts.TooltipDelay = defaultTooltipDelay
	}
	if opts.UnitsPerMinute <= 0 {
		opts.UnitsPerMinute = algorithms.DefaultUnitsPerMinute
	}

	return &Navigator{
		catalog: catalog,
		graph:   graph,
		state:   models.NewSelectionState(floorIndex),
		opts:    opts,
	}, nil
}

// ========================================
// 이벤트 메서드
// ========================================

// ArmSelection - 다음 선택을 role로 받기
func (n *Navigator) ArmSelection(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	n.dispatch(ArmSelection{Role: role})
	return nil
}

// PickVertex - 정점 선택 (지도 클릭 / 검색 결과)
func (n *Navigator) PickVertex(v models.Vertex) {
	n.dispatch(PickVertex{Vertex: v})
}

// PickVertexByID - 현재 층 그래프에서 ID로 찾아 선택
func (n *Navigator) PickVertexByID(id string) error {
	n.mu.Lock()
	v, ok := n.graph.Vertex(id)
	n.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVertex, id)
	}
	n.dispatch(PickVertex{Vertex: v})
	return nil
}

// PromoteToRole - 보고 있는 위치를 시작/도착으로 지정
func (n *Navigator) PromoteToRole(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	n.dispatch(PromoteToRole{Role: role})
	return nil
}

// ClearEndpoint - 시작 또는 도착 해제
func (n *Navigator) ClearEndpoint(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	n.dispatch(ClearEndpoint{Role: role})
	return nil
}

// ClearRoute - 경로 전체 초기화
func (n *Navigator) ClearRoute() {
	n.dispatch(ClearRoute{})
}

// ChangeFloor - 층 변경. 잘못된 층이면 상태를 바꾸지 않는다.
func (n *Navigator) ChangeFloor(index int) error {
	graph, err := n.catalog.ActiveGraph(index)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.graph = graph
	n.dispatchLocked(ChangeFloor{Index: index})
	return nil
}

// HoverStart - 정점 호버 시작 (툴팁 지연 예약)
func (n *Navigator) HoverStart(vertexID string) {
	n.dispatch(HoverStart{VertexID: vertexID})
}

// HoverEnd - 호버 종료
func (n *Navigator) HoverEnd() {
	n.dispatch(HoverEnd{})
}

// CloseInspector - 상세 패널 닫기
func (n *Navigator) CloseInspector() {
	n.dispatch(CloseInspector{})
}

// Recompute - 재계산 단계만 실행
func (n *Navigator) Recompute() {
	n.mu.Lock()
	defer n.mu.Unlock()

	prev := n.state
	n.state = Recompute(n.state.Clone(), n.graph)
	n.afterTransition(prev)
}

// Dispatch - 이벤트 직접 전달 (타이머 이벤트 포함)
func (n *Navigator) Dispatch(ev Event) error {
	if ev == nil {
		return ErrUnknownEvent
	}
	n.dispatch(ev)
	return nil
}

// ========================================
// 조회
// ========================================

// State - 현재 상태 스냅샷
func (n *Navigator) State() models.SelectionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Clone()
}

// Snapshot - 렌더링용 스냅샷 (예상 도보 시간 포함)
func (n *Navigator) Snapshot() models.StateSnapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotLocked()
}

// Graph - 현재 층 그래프
func (n *Navigator) Graph() models.Graph {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.graph
}

// SessionID - 세션 ID
func (n *Navigator) SessionID() string {
	return n.opts.SessionID
}

// Close - 대기 중인 타이머 정리. 이후 이벤트는 무시된다.
func (n *Navigator) Close() {
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()

	n.opts.Scheduler.Stop()
}

// ========================================
// 내부 처리
// ========================================

func (n *Navigator) dispatch(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.dispatchLocked(ev)
}

func (n *Navigator) dispatchLocked(ev Event) {
	prev := n.state
	next, effects := Transition(n.state, ev, TransitionEnv{Graph: n.graph, Rooms: n.opts.Rooms})
	n.state = next

	for _, eff := range effects {
		n.applyEffect(eff)
	}

	if _, ok := ev.(ChangeFloor); ok {
		n.record(models.EventFloorChanged, "")
	}
	if _, ok := ev.(ClearRoute); ok {
		n.record(models.EventRouteCleared, "")
	}
	n.afterTransition(prev)
}

// applyEffect - 타이머 명령 실행. 콜백은 다른 고루틴에서 dispatch로 돌아온다.
func (n *Navigator) applyEffect(eff Effect) {
	sched := n.opts.Scheduler

	if eff.Kind == EffectCancel {
		sched.Cancel(eff.Purpose)
		return
	}

	switch eff.Purpose {
	case TaskTooltip:
		ev := RevealTooltip{VertexID: eff.VertexID, Token: eff.Token}
		sched.Schedule(TaskTooltip, n.opts.TooltipDelay, func() { n.dispatch(ev) })
	case TaskErrorClear:
		ev := DismissError{Token: eff.Token}
		sched.Schedule(TaskErrorClear, n.opts.ErrorDisplay, func() { n.dispatch(ev) })
	}
}

// afterTransition - 이벤트 기록 + 변경 알림 (락 보유 상태)
func (n *Navigator) afterTransition(prev models.SelectionState) {
	cur := n.state

	if reflect.DeepEqual(prev, cur) {
		return
	}

	// 거부된 선택: 에러 토큰만 새로 발급되고 메시지가 설정됨
	if cur.ErrorToken != prev.ErrorToken && cur.ErrorMessage != "" {
		log.Printf("🚫 선택 거부 [%s]: %s", n.opts.SessionID, cur.ErrorMessage)
		n.record(models.EventSelectionRejected, cur.ErrorMessage)
	}

	if cur.RouteVersion != prev.RouteVersion {
		if cur.HasPath() {
			log.Printf("🧭 경로 계산 [%s]: %s → %s (%d개 정점, 거리 %.1f)",
				n.opts.SessionID, cur.Start, cur.End, len(cur.Path), cur.Distance)
			n.record(models.EventRouteComputed, "")
		} else {
			log.Printf("⚠️ 경로 없음 [%s]: %s → %s", n.opts.SessionID, cur.Start, cur.End)
			n.record(models.EventRouteNotFound, "no route between selected points")
		}
	}

	if n.opts.OnChange != nil {
		n.opts.OnChange(n.snapshotLocked())
	}
}

func (n *Navigator) record(eventType, message string) {
	if n.opts.Recorder == nil {
		return
	}

	floorID := n.state.FloorIndex
	if f, err := n.catalog.Floor(n.state.FloorIndex); err == nil {
		floorID = f.ID
	}

	n.opts.Recorder.Record(models.NavigationLog{
		CreatedAt:  time.Now(),
		EventType:  eventType,
		SessionID:  n.opts.SessionID,
		FloorID:    floorID,
		StartID:    n.state.Start,
		EndID:      n.state.End,
		PathLength: len(n.state.Path),
		Distance:   n.state.Distance,
		Message:    message,
	})
}

func (n *Navigator) snapshotLocked() models.StateSnapshot {
	return models.StateSnapshot{
		SessionID: n.opts.SessionID,
		State:     n.state.Clone(),
		Minutes:   algorithms.EstimateMinutes(n.state.Distance, n.opts.UnitsPerMinute),
	}
}
