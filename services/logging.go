package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"indoor-nav-backend/models"

	"gorm.io/gorm"
)

// LogStore - 로그 영구 저장소
type LogStore interface {
	SaveLogs(entries []models.NavigationLog) error
}

// GormLogStore - MySQL(gorm) 저장소
type GormLogStore struct {
	DB        *gorm.DB
	BatchSize int
}

// SaveLogs - 일괄 저장
func (s GormLogStore) SaveLogs(entries []models.NavigationLog) error {
	batch := s.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return s.DB.CreateInBatches(entries, batch).Error
}

// 로깅 버퍼 (비동기 일괄 처리)
type LogBuffer struct {
	logs      []models.NavigationLog
	mu        sync.Mutex
	store     LogStore // nil이면 버림
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	stopChan  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

var logBuffer *LogBuffer

// NewLogBuffer - 버퍼 생성 후 자동 플러시 시작
func NewLogBuffer(store LogStore, flushSize int, flushInterval time.Duration) *LogBuffer {
	if flushSize <= 0 {
		flushSize = 50
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Second
	}

	lb := &LogBuffer{
		logs:      make([]models.NavigationLog, 0, flushSize*2),
		store:     store,
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	// 자동 플러시 고루틴 시작
	go lb.autoFlush()
	return lb
}

// InitLogging - 로깅 시스템 초기화
func InitLogging(store LogStore, flushSize int, flushInterval time.Duration) *LogBuffer {
	logBuffer = NewLogBuffer(store, flushSize, flushInterval)
	log.Printf("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", logBuffer.flushSize, logBuffer.flushTime)
	return logBuffer
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	defer close(lb.done)

	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// Record - 로그 버퍼에 추가 (EventRecorder)
func (lb *LogBuffer) Record(entry models.NavigationLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	lb.mu.Lock()
	lb.logs = append(lb.logs, entry)
	size := len(lb.logs)
	lb.mu.Unlock()

	// 버퍼 크기가 차면 즉시 플러시
	if size >= lb.flushSize {
		go lb.Flush()
	}
}

// Pending - 아직 저장되지 않은 로그 수
func (lb *LogBuffer) Pending() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.logs)
}

// Flush - 버퍼의 모든 로그를 저장소에 저장
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.NavigationLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]
	lb.mu.Unlock()

	if lb.store == nil {
		return
	}
	if err := lb.store.SaveLogs(logsToSave); err != nil {
		log.Printf("❌ 로그 저장 실패: %v", err)
		return
	}
	log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
}

// Stop - 자동 플러시 종료 (남은 로그 저장 후 반환)
func (lb *LogBuffer) Stop() {
	lb.stopOnce.Do(func() {
		close(lb.stopChan)
	})
	<-lb.done
}

// StopLogging - 로깅 시스템 종료
func StopLogging() {
	if logBuffer != nil {
		logBuffer.Stop()
		log.Println("🛑 로깅 시스템 종료")
	}
}

// ========================================
// 조회 (통계용)
// ========================================

// GetRecentLogs - 최근 로그 조회. sessionID가 비어 있으면 전체.
func GetRecentLogs(sessionID string, limit int) ([]models.NavigationLog, error) {
	if db == nil {
		return nil, ErrDatabaseDisabled
	}

	var logs []models.NavigationLog
	query := db.Order("created_at DESC").Limit(limit)
	if sessionID != "" {
		query = query.Where("session_id = ?", sessionID)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(eventType string, limit int) ([]models.NavigationLog, error) {
	if db == nil {
		return nil, ErrDatabaseDisabled
	}

	var logs []models.NavigationLog
	err := db.Where("event_type = ?", eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogStats - 최근 N시간 이벤트 통계
func GetLogStats(hours int) (map[string]interface{}, error) {
	if db == nil {
		return nil, ErrDatabaseDisabled
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var totalLogs int64
	if err := db.Model(&models.NavigationLog{}).
		Where("created_at >= ?", since).
		Count(&totalLogs).Error; err != nil {
		return nil, err
	}

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	if err := db.Model(&models.NavigationLog{}).
		Select("event_type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("event_type").
		Scan(&eventCounts).Error; err != nil {
		return nil, err
	}

	eventMap := make(map[string]int64)
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	// 경로 탐색 성공률
	var successRate float64
	computed, missed := eventMap[models.EventRouteComputed], eventMap[models.EventRouteNotFound]
	if computed+missed > 0 {
		successRate = float64(computed) / float64(computed+missed)
	}

	return map[string]interface{}{
		"total_logs":         totalLogs,
		"event_counts":       eventMap,
		"route_success_rate": successRate,
		"time_range":         fmt.Sprintf("Last %d hours", hours),
	}, nil
}
