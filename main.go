package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"indoor-nav-backend/config"
	"indoor-nav-backend/handlers"
	"indoor-nav-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// 층 데이터 (시작 시 한 번만 로드)
	catalog, err := services.LoadCatalog(cfg.FloorManifest)
	if err != nil {
		log.Fatalf("❌ 층 데이터 로드 실패: %v", err)
	}
	if _, err := catalog.Floor(cfg.DefaultFloor); err != nil {
		log.Printf("⚠️  DEFAULT_FLOOR=%d 층이 없습니다. 0번 층으로 시작합니다.", cfg.DefaultFloor)
		cfg.DefaultFloor = 0
	}

	// MySQL 연결 (없으면 기본 방 정보 + 로그 미저장)
	var store services.LogStore
	rooms := services.NewRoomDirectory(services.DefaultRooms()...)

	db, err := services.InitDatabase(cfg.MySQL)
	switch {
	case err == nil:
		if err := services.SeedRooms(db); err != nil {
			log.Printf("⚠️  방 정보 초기 데이터 저장 실패: %v", err)
		}
		if loaded, err := services.LoadRoomDirectory(db); err != nil {
			log.Printf("⚠️  방 정보 로드 실패, 기본값 사용: %v", err)
		} else {
			rooms = loaded
		}
		store = services.GormLogStore{DB: db}
	case errors.Is(err, services.ErrDatabaseDisabled):
	default:
		log.Fatalf("❌ DB 초기화 실패: %v", err)
	}

	// 로깅 시스템 초기화
	recorder := services.InitLogging(store, cfg.LogFlushSize, cfg.LogFlushInterval)
	defer services.StopLogging() // 종료 시 남은 로그 저장

	server := handlers.NewServer(cfg, catalog, rooms, recorder)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	server.Routes(app)

	// 종료 신호 처리
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("🛑 서버 종료 중...")
		server.Sessions.CloseAll()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("🚀 서버 시작: http://localhost%s", addr)
	log.Printf("📡 WebSocket: ws://localhost%s/websocket/nav?floor=%d", addr, cfg.DefaultFloor)
	log.Printf("🧭 경로 API: POST http://localhost%s/api/route", addr)
	log.Printf("💾 로그 API: GET http://localhost%s/api/logs/*", addr)

	if err := app.Listen(addr); err != nil {
		log.Printf("❌ 서버 오류: %v", err)
	}
}
