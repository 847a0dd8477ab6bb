package services

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"indoor-nav-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoomLookup - 방 메타데이터 조회 (레이블 표시용)
type RoomLookup interface {
	Lookup(roomID string) (models.RoomDetail, bool)
}

// RoomDirectory - 메모리 방 목록
type RoomDirectory struct {
	rooms map[string]models.RoomDetail
}

// NewRoomDirectory - 주어진 방 목록으로 생성
func NewRoomDirectory(rooms ...models.RoomDetail) *RoomDirectory {
	d := &RoomDirectory{rooms: make(map[string]models.RoomDetail, len(rooms))}
	for _, r := range rooms {
		d.rooms[r.RoomID] = r
	}
	return d
}

// Lookup - 방 번호(또는 카테고리)로 조회
func (d *RoomDirectory) Lookup(roomID string) (models.RoomDetail, bool) {
	if d == nil {
		return models.RoomDetail{}, false
	}
	r, ok := d.rooms[roomID]
	return r, ok
}

// All - 방 번호 순 목록
func (d *RoomDirectory) All() []models.RoomDetail {
	if d == nil {
		return nil
	}
	out := make([]models.RoomDetail, 0, len(d.rooms))
	for _, r := range d.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out
}

const officeHours = "Saturday - Thursday: 9:00 AM - 4:00 PM"

// DefaultRooms - 기본 방 정보
func DefaultRooms() []models.RoomDetail {
	rooms := []models.RoomDetail{
		{RoomID: "401", Name: "Dean's Office", Type: "facility", Description: "Dean's Office - Administrative headquarters",
			WorkingHours: officeHours, Contact: "Room 401", Accessible: true},
		{RoomID: "wc_male", Name: "Male WC", Type: "facility", Description: "Men's Restroom", Accessible: true},
		{RoomID: "wc_female", Name: "Female WC", Type: "facility", Description: "Women's Restroom", Accessible: true},
	}

	for room, hall := range map[string]string{"435": "7", "438": "8"} {
		rooms = append(rooms, models.RoomDetail{
			RoomID: room, Name: "Hall " + hall, Type: "facility",
			Description:  fmt.Sprintf("Hall %s - Large lecture hall", hall),
			WorkingHours: officeHours, Contact: "Room " + room, Accessible: true,
		})
	}
	for room, lab := range map[string]string{"411": "1", "412": "2", "413": "3", "415": "4"} {
		rooms = append(rooms, models.RoomDetail{
			RoomID: room, Name: "Lab " + lab, Type: "facility",
			Description:  fmt.Sprintf("Computer Lab %s - Student workspace with computers", lab),
			WorkingHours: officeHours, Contact: "Room " + room, Accessible: true,
		})
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomID < rooms[j].RoomID })
	return rooms
}

// LoadRoomDirectory - 기본값 위에 room_details 테이블 내용을 덮어쓴다. db가 nil이면 기본값만.
func LoadRoomDirectory(db *gorm.DB) (*RoomDirectory, error) {
	dir := NewRoomDirectory(DefaultRooms()...)
	if db == nil {
		return dir, nil
	}

	var rows []models.RoomDetail
	if err := db.Find(&rows).Error; err != nil {
		return dir, fmt.Errorf("load room details: %w", err)
	}
	for _, r := range rows {
		dir.rooms[r.RoomID] = r
	}

	log.Printf("🚪 방 정보 로드 완료 (DB %d개, 전체 %d개)", len(rows), len(dir.rooms))
	return dir, nil
}

// SeedRooms - 기본 방 정보를 DB에 넣는다 (이미 있는 행은 유지)
func SeedRooms(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	rooms := DefaultRooms()
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rooms).Error
}

// ========================================
// 레이블 헬퍼
// ========================================

var shortNamePattern = regexp.MustCompile(`(?i)^(Lab|Hall|Dean|Vice Dean|Secretary|Control|Utilities)`)

func roomName(tag string, rooms RoomLookup) (num, name string, known bool) {
	num = strings.TrimPrefix(tag, models.InfoPrefix)
	if rooms != nil {
		if r, ok := rooms.Lookup(num); ok && r.Name != "" {
			return num, r.Name, true
		}
	}
	return num, num, false
}

// DisplayName - 태그의 표시 이름
func DisplayName(tag string, rooms RoomLookup) string {
	if tag == "" {
		return ""
	}
	if !strings.HasPrefix(tag, models.InfoPrefix) {
		return tag
	}
	_, name, _ := roomName(tag, rooms)
	return name
}

// ShortDisplayName - 툴팁용 짧은 이름 (Lab 411, Hall 435, ...)
func ShortDisplayName(tag string, rooms RoomLookup) string {
	if tag == "" {
		return ""
	}
	if !strings.HasPrefix(tag, models.InfoPrefix) {
		return tag
	}

	num, name, known := roomName(tag, rooms)
	if !known {
		return num
	}
	if match := shortNamePattern.FindString(name); match != "" {
		if num == "" {
			return match
		}
		return match + " " + num
	}
	return num
}

// ShortLabelParts - 지도 마커용 [첫 단어, 번호]
func ShortLabelParts(tag string, rooms RoomLookup) [2]string {
	if tag == "" {
		return [2]string{"", ""}
	}
	if !strings.HasPrefix(tag, models.InfoPrefix) {
		return [2]string{tag, ""}
	}
	num, name, _ := roomName(tag, rooms)
	words := strings.Fields(name)
	if len(words) == 0 {
		return [2]string{"", num}
	}
	return [2]string{words[0], num}
}

// SearchLocations - 표시 이름 또는 방 번호에 검색어가 포함된 태그 정점 (그래프 순서)
func SearchLocations(query string, g models.Graph, rooms RoomLookup) []models.Vertex {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.Vertex
	for _, v := range g.Vertices {
		if v.ObjectName == "" {
			continue
		}
		name := strings.ToLower(DisplayName(v.ObjectName, rooms))
		num := strings.ToLower(v.InfoKey())
		if strings.Contains(name, q) || strings.Contains(num, q) {
			out = append(out, v)
		}
	}
	return out
}
