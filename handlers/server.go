package handlers

import (
	"errors"
	"time"

	"indoor-nav-backend/config"
	"indoor-nav-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Server - 핸들러 공용 의존성
type Server struct {
	Config   *config.Config
	Catalog  *services.FloorCatalog
	Rooms    *services.RoomDirectory
	Recorder services.EventRecorder
	Sessions *SessionManager
}

// NewServer - 핸들러 서버 생성
func NewServer(cfg *config.Config, catalog *services.FloorCatalog, rooms *services.RoomDirectory, recorder services.EventRecorder) *Server {
	return &Server{
		Config:   cfg,
		Catalog:  catalog,
		Rooms:    rooms,
		Recorder: recorder,
		Sessions: NewSessionManager(),
	}
}

// Routes - API / WebSocket 라우트 등록
func (s *Server) Routes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("실내 길찾기 서버가 실행 중입니다.")
	})

	api := app.Group("/api")
	api.Get("/health", s.HandleHealth)

	// 층 데이터
	api.Get("/floors", s.HandleListFloors)
	api.Get("/floors/:index/graph", s.HandleFloorGraph)
	api.Get("/floors/:index/locations", s.HandleSearchLocations)

	// 경로 탐색
	api.Post("/route", s.HandleRoute)
	api.Post("/resolve", s.HandleResolve)

	// 방 정보
	api.Get("/rooms", s.HandleListRooms)
	api.Get("/rooms/:id", s.HandleGetRoom)

	// 로그 조회 API
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", HandleGetRecentLogs)    // 최근 로그
	logsAPI.Get("/type", HandleGetLogsByEventType) // 이벤트 타입별
	logsAPI.Get("/stats", HandleGetLogStats)       // 통계

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/nav", websocket.New(s.HandleNavWebSocket))
}

// HandleHealth - 서버 상태
func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "OK",
		"sessions": s.Sessions.Count(),
		"floors":   s.Catalog.Len(),
		"time":     time.Now().Format(time.RFC3339),
	})
}

// ErrorHandler - fiber 기본 에러 응답을 {success, message} 형식으로
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return errorResponse(c, code, err.Error())
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// statusFor - 서비스 에러 → HTTP 상태 코드
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownFloor), errors.Is(err, services.ErrUnknownVertex):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDatabaseDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// floorParam - :index 파라미터
func (s *Server) floorParam(c *fiber.Ctx) (int, error) {
	index, err := c.ParamsInt("index")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "floor index must be an integer")
	}
	return index, nil
}
