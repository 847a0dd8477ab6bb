package handlers

import (
	"log"
	"sync"
	"time"

	"indoor-nav-backend/models"
	"indoor-nav-backend/services"
)

// messageWriter - JSON 메시지 전송 대상 (*websocket.Conn)
type messageWriter interface {
	WriteJSON(v interface{}) error
}

// Session - WebSocket 연결 하나의 선택 세션
type Session struct {
	ID          string
	Nav         *services.Navigator
	ConnectedAt time.Time

	mu   sync.Mutex
	conn messageWriter
}

// Send - 메시지 전송 (연결별 직렬화)
func (s *Session) Send(msgType string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.WriteJSON(models.WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}

// pushState - Navigator OnChange 콜백
func (s *Session) pushState(snap models.StateSnapshot) {
	if err := s.Send(models.MessageTypeState, snap); err != nil {
		log.Printf("⚠️ 상태 전송 실패 [%s]: %v", s.ID, err)
	}
}

// SessionManager - 연결된 세션 관리
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager - 세션 관리자 생성
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// Register - 세션 등록
func (m *SessionManager) Register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	log.Printf("🔌 세션 등록: %s (총 %d개)", s.ID, len(m.sessions))
}

// Unregister - 세션 제거 및 타이머 정리
func (m *SessionManager) Unregister(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	remaining := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}
	if s.Nav != nil {
		s.Nav.Close()
	}
	log.Printf("👋 세션 해제: %s (남은 %d개)", id, remaining)
}

// Get - 세션 조회
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count - 연결된 세션 수
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll - 서버 종료 시 모든 세션 정리
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Unregister(id)
	}
}
