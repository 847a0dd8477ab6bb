package models

// ========================================
// 선택 모드 / 역할 상수
// ========================================

// SelectionMode - 다음 선택이 어느 역할로 들어갈지
type SelectionMode string

const (
	ModeIdle          SelectionMode = "idle"
	ModeAwaitingStart SelectionMode = "awaiting-start"
	ModeAwaitingEnd   SelectionMode = "awaiting-end"
)

// Role - 경로 끝점 역할
type Role string

const (
	RoleStart Role = "start"
	RoleEnd   Role = "end"
)

// Valid - 알려진 역할인지
func (r Role) Valid() bool {
	return r == RoleStart || r == RoleEnd
}

// Opposite - 반대 역할
func (r Role) Opposite() Role {
	if r == RoleStart {
		return RoleEnd
	}
	return RoleStart
}

// Tooltip - 호버 툴팁
type Tooltip struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// ========================================
// 선택 상태
// ========================================

// SelectionState - 한 세션의 경로 선택 상태 (빈 문자열 = 없음)
type SelectionState struct {
	FloorIndex int           `json:"floor_index"`
	Start      string        `json:"selected_start"`
	End        string        `json:"selected_end"`
	Mode       SelectionMode `json:"selection_mode"`
	Path       []Vertex      `json:"path"`
	Distance   float64       `json:"distance"`

	// 경로를 새로 계산할 때마다 증가
	RouteVersion uint64 `json:"route_version"`
	RoutedFrom   string `json:"-"` // 마지막 계산에 쓴 끝점 (경로 없음 포함)
	RoutedTo     string `json:"-"`

	// 지도 클릭으로 보고 있는 위치 (상세 패널)
	Inspected          *Vertex `json:"inspected,omitempty"`
	InspectedRoutingID string  `json:"inspected_routing_id,omitempty"`

	Hovered      string   `json:"hovered,omitempty"`
	Tooltip      *Tooltip `json:"tooltip,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`

	// 타이머 토큰: 오래된 타이머가 새 상태를 덮어쓰지 않도록
	ErrorToken   uint64 `json:"-"`
	TooltipToken uint64 `json:"-"`
}

// NewSelectionState - 층 활성화 시 초기 상태
func NewSelectionState(floorIndex int) SelectionState {
	return SelectionState{
		FloorIndex: floorIndex,
		Mode:       ModeIdle,
	}
}

// Endpoint - 역할별 끝점 ID
func (s SelectionState) Endpoint(role Role) string {
	if role == RoleStart {
		return s.Start
	}
	return s.End
}

// HasPath - 계산된 경로가 있는지
func (s SelectionState) HasPath() bool {
	return len(s.Path) > 0
}

// Clone - 슬라이스/포인터까지 복사한 스냅샷
func (s SelectionState) Clone() SelectionState {
	out := s
	if s.Path != nil {
		out.Path = make([]Vertex, len(s.Path))
		copy(out.Path, s.Path)
	}
	if s.Inspected != nil {
		v := *s.Inspected
		out.Inspected = &v
	}
	if s.Tooltip != nil {
		t := *s.Tooltip
		out.Tooltip = &t
	}
	return out
}
