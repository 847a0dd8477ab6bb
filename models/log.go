package models

import (
	"time"
)

// 내비게이션 이벤트 타입
const (
	EventRouteComputed     = "route_computed"
	EventRouteNotFound     = "route_not_found"
	EventSelectionRejected = "selection_rejected"
	EventFloorChanged      = "floor_changed"
	EventRouteCleared      = "route_cleared"
)

// NavigationLog - 경로 탐색 행동 로그 (통계용, 세션 복원에는 쓰지 않음)
type NavigationLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EventType string    `gorm:"index;size:32" json:"event_type"`
	SessionID string    `gorm:"index;size:64" json:"session_id"`

	// 층 / 경로 정보
	FloorID    int     `json:"floor_id"`
	StartID    string  `json:"start_id"`
	EndID      string  `json:"end_id"`
	PathLength int     `json:"path_length"` // 정점 개수
	Distance   float64 `json:"distance"`

	Message string `json:"message"`
}
