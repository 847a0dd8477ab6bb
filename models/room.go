package models

import "time"

// RoomDetail - 방 메타데이터 (표시용, 경로 계산에는 쓰지 않음)
type RoomDetail struct {
	RoomID       string    `gorm:"primaryKey;size:64" json:"room_id"` // 방 번호 또는 카테고리 (401, wc_male)
	Name         string    `json:"name"`
	Type         string    `json:"type,omitempty"` // "facility", "store", "service", ...
	Description  string    `json:"description,omitempty"`
	WorkingHours string    `json:"working_hours,omitempty"`
	Contact      string    `json:"contact,omitempty"`
	Accessible   bool      `json:"accessible"`
	UpdatedAt    time.Time `json:"updated_at"`
}
