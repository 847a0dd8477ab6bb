package models

import "encoding/json"

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Web → Server (선택 세션 이벤트)
	MessageTypeArmSelection   = "arm_selection"   // 시작/도착 선택 모드 진입
	MessageTypePickVertex     = "pick_vertex"     // 지도/검색에서 위치 선택
	MessageTypePromote        = "promote"         // 보고 있는 위치를 시작/도착으로 지정
	MessageTypeClearEndpoint  = "clear_endpoint"  // 시작 또는 도착 해제
	MessageTypeClearRoute     = "clear_route"     // 경로 전체 초기화
	MessageTypeChangeFloor    = "change_floor"    // 층 변경
	MessageTypeHoverStart     = "hover_start"     // 정점 호버 시작
	MessageTypeHoverEnd       = "hover_end"       // 호버 종료
	MessageTypeCloseInspector = "close_inspector" // 상세 패널 닫기

	// Server → Web
	MessageTypeState      = "state"       // 선택 상태 스냅샷
	MessageTypeError      = "error"       // 요청 처리 실패
	MessageTypeSystemInfo = "system_info" // 연결 정보
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// ClientMessage - 클라이언트가 보내는 메시지 (data는 타입별로 해석)
type ClientMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// RolePayload - arm_selection / promote / clear_endpoint
type RolePayload struct {
	Role Role `json:"role"`
}

// VertexPayload - pick_vertex / hover_start
type VertexPayload struct {
	VertexID string `json:"vertex_id"`
}

// FloorPayload - change_floor
type FloorPayload struct {
	Floor int `json:"floor"`
}

// ========================================
// 상태 스냅샷
// ========================================

// StateSnapshot - 렌더링용 관찰 가능 상태
type StateSnapshot struct {
	SessionID string         `json:"session_id"`
	State     SelectionState `json:"state"`
	Minutes   int            `json:"minutes"` // 예상 도보 시간 (분)
}

// ========================================
// 시스템 정보
// ========================================
type SystemInfo struct {
	SessionID  string `json:"session_id"`
	FloorIndex int    `json:"floor_index"`
	Floors     int    `json:"floors"`
	ServerTime string `json:"server_time"`
}
