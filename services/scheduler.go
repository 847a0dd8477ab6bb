package services

import (
	"sync"
	"time"
)

// TaskPurpose - 지연 작업 종류 (종류별로 최대 하나만 대기)
type TaskPurpose string

const (
	TaskTooltip    TaskPurpose = "tooltip"     // 호버 후 툴팁 표시
	TaskErrorClear TaskPurpose = "error_clear" // 에러 메시지 자동 해제
)

// Scheduler - 종류별 단발성 지연 작업. 새로 예약하면 이전 작업은 취소된다.
type Scheduler interface {
	Schedule(purpose TaskPurpose, delay time.Duration, fn func())
	Cancel(purpose TaskPurpose)
	Stop()
}

// TimerScheduler - time.AfterFunc 기반 Scheduler
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[TaskPurpose]*time.Timer
	gens    map[TaskPurpose]uint64
	stopped bool
}

// NewTimerScheduler - TimerScheduler 생성
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[TaskPurpose]*time.Timer),
		gens:   make(map[TaskPurpose]uint64),
	}
}

// Schedule - purpose의 이전 작업을 취소하고 새 작업 예약
func (s *TimerScheduler) Schedule(purpose TaskPurpose, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.cancelLocked(purpose)

	gen := s.gens[purpose]
	s.timers[purpose] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.stopped || s.gens[purpose] != gen {
			s.mu.Unlock()
			return
		}
		delete(s.timers, purpose)
		s.mu.Unlock()

		fn()
	})
}

// Cancel - 대기 중인 작업 취소
func (s *TimerScheduler) Cancel(purpose TaskPurpose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(purpose)
}

// Pending - 대기 중인 작업이 있는지
func (s *TimerScheduler) Pending(purpose TaskPurpose) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[purpose]
	return ok
}

// Stop - 모든 작업 취소, 이후 예약 무시
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for purpose := range s.timers {
		s.cancelLocked(purpose)
	}
	s.stopped = true
}

func (s *TimerScheduler) cancelLocked(purpose TaskPurpose) {
	s.gens[purpose]++
	if t, ok := s.timers[purpose]; ok {
		t.Stop()
		delete(s.timers, purpose)
	}
}
