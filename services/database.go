package services

import (
	"errors"
	"fmt"
	"log"

	"indoor-nav-backend/config"
	"indoor-nav-backend/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDatabaseDisabled - MySQL 설정이 없어 저장소 없이 실행 중
var ErrDatabaseDisabled = errors.New("database is not configured")

// DB 인스턴스 (설정이 없으면 nil)
var db *gorm.DB

// InitDatabase - MySQL 연결 및 마이그레이션. 설정이 없으면 nil, ErrDatabaseDisabled.
func InitDatabase(cfg config.MySQLConfig) (*gorm.DB, error) {
	if !cfg.Enabled() {
		log.Println("⚠️  MySQL 환경 변수가 없습니다. 기본 방 정보만 사용하고 로그는 저장하지 않습니다.")
		return nil, ErrDatabaseDisabled
	}

	conn, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("DB 연결 실패: %w", err)
	}

	// AutoMigrate - 테이블 자동 생성
	if err := conn.AutoMigrate(&models.RoomDetail{}, &models.NavigationLog{}); err != nil {
		return nil, fmt.Errorf("마이그레이션 실패: %w", err)
	}

	db = conn
	log.Println("✅ MySQL 연결 및 마이그레이션 완료")
	log.Printf("📡 연결 정보: %s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
	return conn, nil
}

// GetDB - GORM 인스턴스 반환
func GetDB() *gorm.DB {
	return db
}
