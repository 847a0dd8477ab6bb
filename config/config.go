package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - 서버 설정
type Config struct {
	Port           string
	AllowedOrigins string

	// 층 데이터
	FloorManifest string
	DefaultFloor  int

	// 선택 세션 타이머
	ErrorDisplay time.Duration
	TooltipDelay time.Duration

	// 예상 도보 시간 계산 (좌표 단위 / 분)
	WalkUnitsPerMinute float64

	// 로그 버퍼
	LogFlushSize     int
	LogFlushInterval time.Duration

	MySQL MySQLConfig
}

// MySQLConfig - DB 연결 정보
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Enabled - 필수 값이 모두 있을 때만 DB 사용
func (m MySQLConfig) Enabled() bool {
	return m.Host != "" && m.User != "" && m.Password != "" && m.Database != ""
}

// DSN - gorm mysql DSN
func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

// Load - .env 파일과 환경 변수에서 설정 로드
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env 파일을 찾을 수 없습니다. 환경 변수만 사용합니다.")
	}
	return FromEnv()
}

// FromEnv - 현재 환경 변수로 설정 구성 (.env 로드 없음)
func FromEnv() *Config {
	return &Config{
		Port:               getEnv("PORT", "3000"),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "http://localhost:5173, http://localhost:3000"),
		FloorManifest:      getEnv("FLOOR_MANIFEST", "data/floors.hcl"),
		DefaultFloor:       getEnvAsInt("DEFAULT_FLOOR", 1),
		ErrorDisplay:       getEnvAsMillis("ERROR_DISPLAY_MS", 3000),
		TooltipDelay:       getEnvAsMillis("TOOLTIP_DELAY_MS", 200),
		WalkUnitsPerMinute: getEnvAsFloat("WALK_UNITS_PER_MINUTE", 100),
		LogFlushSize:       getEnvAsInt("LOG_FLUSH_SIZE", 50),
		LogFlushInterval:   time.Duration(getEnvAsInt("LOG_FLUSH_SECONDS", 10)) * time.Second,
		MySQL: MySQLConfig{
			Host:     os.Getenv("MYSQL_HOST"),
			Port:     getEnvAsInt("MYSQL_PORT", 3306),
			User:     os.Getenv("MYSQL_USER"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Database: os.Getenv("MYSQL_DATABASE"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("⚠️  %s 값이 정수가 아닙니다: %q (기본값 %d 사용)", key, value, defaultVal)
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultVal
}

func getEnvAsMillis(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultMs)) * time.Millisecond
}
