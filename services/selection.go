package services

import (
	"errors"

	"indoor-nav-backend/algorithms"
	"indoor-nav-backend/models"
)

// SameEndpointMessage - 시작/도착 중복 선택 거부 메시지
const SameEndpointMessage = "Cannot select the same point as both start and end"

var (
	ErrUnknownEvent  = errors.New("unknown selection event")
	ErrUnknownRole   = errors.New("unknown endpoint role")
	ErrUnknownVertex = errors.New("vertex not on active floor")
)

// ========================================
// 이벤트
// ========================================

// Event - 선택 상태 머신 입력
type Event interface {
	eventName() string
}

// ArmSelection - 다음 선택을 role로 받기
type ArmSelection struct{ Role models.Role }

// PickVertex - 지도 클릭 또는 검색 결과 선택
type PickVertex struct{ Vertex models.Vertex }

// PromoteToRole - 보고 있는 위치를 role로 지정
type PromoteToRole struct{ Role models.Role }

// ClearEndpoint - role 끝점 해제
type ClearEndpoint struct{ Role models.Role }

// ClearRoute - 전체 초기화
type ClearRoute struct{}

// ChangeFloor - 층 변경 (Index는 카탈로그에서 검증된 값)
type ChangeFloor struct{ Index int }

// HoverStart - 정점 위에 포인터 진입
type HoverStart struct{ VertexID string }

// HoverEnd - 포인터 이탈
type HoverEnd struct{}

// RevealTooltip - 툴팁 지연 타이머 만료
type RevealTooltip struct {
	VertexID string
	Token    uint64
}

// DismissError - 에러 표시 타이머 만료
type DismissError struct{ Token uint64 }

// CloseInspector - 상세 패널 닫기
type CloseInspector struct{}

func (ArmSelection) eventName() string   { return "arm_selection" }
func (PickVertex) eventName() string     { return "pick_vertex" }
func (PromoteToRole) eventName() string  { return "promote" }
func (ClearEndpoint) eventName() string  { return "clear_endpoint" }
func (ClearRoute) eventName() string     { return "clear_route" }
func (ChangeFloor) eventName() string    { return "change_floor" }
func (HoverStart) eventName() string     { return "hover_start" }
func (HoverEnd) eventName() string       { return "hover_end" }
func (RevealTooltip) eventName() string  { return "reveal_tooltip" }
func (DismissError) eventName() string   { return "dismiss_error" }
func (CloseInspector) eventName() string { return "close_inspector" }

// ========================================
// 효과 (타이머 명령)
// ========================================

// EffectKind - 타이머 명령 종류
type EffectKind int

const (
	EffectSchedule EffectKind = iota
	EffectCancel
)

// Effect - Transition이 요청하는 타이머 명령
type Effect struct {
	Kind     EffectKind
	Purpose  TaskPurpose
	Token    uint64
	VertexID string // 툴팁 대상
}

// TransitionEnv - 전이에 필요한 현재 층 데이터
type TransitionEnv struct {
	Graph models.Graph
	Rooms RoomLookup
}

// ========================================
// 전이 함수
// ========================================

// Transition - 현재 상태와 이벤트로 다음 상태와 타이머 명령을 만든다.
// 입력 state는 수정하지 않는다. 모든 전이 뒤에 Recompute가 적용된다.
func Transition(state models.SelectionState, ev Event, env TransitionEnv) (models.SelectionState, []Effect) {
	next := state.Clone()
	var effects []Effect

	switch e := ev.(type) {
	case ArmSelection:
		switch e.Role {
		case models.RoleStart:
			next.Mode = models.ModeAwaitingStart
		case models.RoleEnd:
			next.Mode = models.ModeAwaitingEnd
		}

	case PickVertex:
		next, effects = pickVertex(next, e.Vertex, env.Graph)

	case PromoteToRole:
		next, effects = promote(next, e.Role, env.Graph)

	case ClearEndpoint:
		if !e.Role.Valid() {
			break
		}
		if e.Role == models.RoleStart {
			next.Start = ""
		} else {
			next.End = ""
		}
		discardPath(&next)

	case ClearRoute:
		next = resetState(next, next.FloorIndex)
		effects = cancelTimers()

	case ChangeFloor:
		next = resetState(next, e.Index)
		effects = cancelTimers()

	case HoverStart:
		if _, ok := env.Graph.Vertex(e.VertexID); !ok {
			break
		}
		next.Hovered = e.VertexID
		next.Tooltip = nil
		next.TooltipToken++
		effects = []Effect{{Kind: EffectSchedule, Purpose: TaskTooltip, Token: next.TooltipToken, VertexID: e.VertexID}}

	case HoverEnd:
		next.Hovered = ""
		next.Tooltip = nil
		next.TooltipToken++
		effects = []Effect{{Kind: EffectCancel, Purpose: TaskTooltip}}

	case RevealTooltip:
		if e.Token != next.TooltipToken || e.VertexID != next.Hovered {
			break
		}
		v, ok := env.Graph.Vertex(e.VertexID)
		if !ok {
			break
		}
		next.Tooltip = &models.Tooltip{
			X:     v.CX,
			Y:     v.CY,
			Label: ShortDisplayName(v.ObjectName, env.Rooms),
		}

	case DismissError:
		if e.Token == next.ErrorToken {
			next.ErrorMessage = ""
		}

	case CloseInspector:
		next.Inspected = nil
		next.InspectedRoutingID = ""
	}

	return Recompute(next, env.Graph), effects
}

// pickVertex - 선택 모드에 따라 끝점 지정 또는 상세 보기
func pickVertex(s models.SelectionState, v models.Vertex, g models.Graph) (models.SelectionState, []Effect) {
	routingID := ResolveRoutableVertex(v, g)

	switch s.Mode {
	case models.ModeAwaitingStart:
		if s.End != "" && routingID == s.End {
			return reject(s, SameEndpointMessage)
		}
		s.Start = routingID
		s.Mode = models.ModeAwaitingEnd
		if s.End != "" {
			computePath(&s, g)
		} else {
			discardPath(&s)
		}

	case models.ModeAwaitingEnd:
		if s.Start != "" && routingID == s.Start {
			return reject(s, SameEndpointMessage)
		}
		s.End = routingID
		s.Mode = models.ModeIdle
		if s.Start != "" {
			computePath(&s, g)
		} else {
			discardPath(&s)
		}

	default:
		picked := v
		s.Inspected = &picked
		s.InspectedRoutingID = routingID
	}
	return s, nil
}

// promote - 상세 보기 중인 위치를 끝점으로 지정
func promote(s models.SelectionState, role models.Role, g models.Graph) (models.SelectionState, []Effect) {
	if !role.Valid() || s.Inspected == nil {
		return s, nil
	}

	routingID := s.InspectedRoutingID
	if routingID == "" {
		routingID = ResolveRoutableVertex(*s.Inspected, g)
	}

	other := s.Endpoint(role.Opposite())
	if other != "" && routingID == other {
		return reject(s, SameEndpointMessage)
	}

	if role == models.RoleStart {
		s.Start = routingID
		if s.End == "" {
			s.Mode = models.ModeAwaitingEnd
		} else {
			s.Mode = models.ModeIdle
		}
	} else {
		s.End = routingID
		s.Mode = models.ModeIdle
	}

	if other != "" {
		computePath(&s, g)
	} else {
		discardPath(&s)
	}
	return s, nil
}

// reject - 상태는 그대로 두고 에러 메시지만 표시 (3초 후 자동 해제)
func reject(s models.SelectionState, msg string) (models.SelectionState, []Effect) {
	s.ErrorMessage = msg
	s.ErrorToken++
	return s, []Effect{{Kind: EffectSchedule, Purpose: TaskErrorClear, Token: s.ErrorToken}}
}

// resetState - 토큰은 유지한 채 층 초기 상태로
func resetState(s models.SelectionState, floorIndex int) models.SelectionState {
	fresh := models.NewSelectionState(floorIndex)
	fresh.RouteVersion = s.RouteVersion
	fresh.ErrorToken = s.ErrorToken + 1
	fresh.TooltipToken = s.TooltipToken + 1
	return fresh
}

func cancelTimers() []Effect {
	return []Effect{
		{Kind: EffectCancel, Purpose: TaskTooltip},
		{Kind: EffectCancel, Purpose: TaskErrorClear},
	}
}

// ========================================
// 경로 재계산
// ========================================

// Recompute - 시작/도착이 모두 있고 선택 모드가 아니면 경로를 맞춘다.
// 이미 현재 끝점으로 계산된 경로가 있으면 그대로 둔다.
func Recompute(s models.SelectionState, g models.Graph) models.SelectionState {
	if s.Start == "" || s.End == "" || s.Mode != models.ModeIdle {
		return s
	}
	if pathMatches(s) {
		return s
	}
	computePath(&s, g)
	return s
}

func pathMatches(s models.SelectionState) bool {
	if s.RoutedFrom != s.Start || s.RoutedTo != s.End {
		return false
	}
	if len(s.Path) == 0 {
		return true // 같은 끝점으로 이미 경로 없음 확인
	}
	return s.Path[0].ID == s.Start && s.Path[len(s.Path)-1].ID == s.End
}

func computePath(s *models.SelectionState, g models.Graph) {
	s.Path = algorithms.ShortestPath(s.Start, s.End, g)
	s.Distance = algorithms.PathDistance(s.Path)
	s.RoutedFrom = s.Start
	s.RoutedTo = s.End
	s.RouteVersion++
}

func discardPath(s *models.SelectionState) {
	s.Path = nil
	s.Distance = 0
	s.RoutedFrom = ""
	s.RoutedTo = ""
}
