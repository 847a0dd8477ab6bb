package handlers

import (
	"log"
	"time"

	"indoor-nav-backend/algorithms"
	"indoor-nav-backend/models"
	"indoor-nav-backend/services"

	"github.com/gofiber/fiber/v2"
)

// RouteRequest - 경로 계산 요청 (정점 ID)
type RouteRequest struct {
	Floor int    `json:"floor"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// RouteResponse - 경로 계산 결과. 경로가 없으면 success=false, 빈 경로, 거리 0.
type RouteResponse struct {
	Success         bool            `json:"success"`
	Path            []models.Vertex `json:"path"`
	Distance        float64         `json:"distance"`
	DisplayDistance float64         `json:"display_distance"`
	Minutes         int             `json:"minutes"`
	Message         string          `json:"message,omitempty"`
}

// ResolveRequest - 선택 항목 → 경로 정점 변환 요청
type ResolveRequest struct {
	Floor    int    `json:"floor"`
	VertexID string `json:"vertex_id"`
}

// HandleRoute - 두 정점 사이 최단 경로
func (s *Server) HandleRoute(c *fiber.Ctx) error {
	var req RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	graph, err := s.Catalog.ActiveGraph(req.Floor)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}

	log.Printf("📍 경로 탐색 요청: 층 %d, %s → %s", req.Floor, req.Start, req.End)

	path := algorithms.ShortestPath(req.Start, req.End, graph)
	if len(path) == 0 {
		log.Printf("❌ 경로를 찾을 수 없습니다: %s → %s", req.Start, req.End)
		s.recordRoute(req, models.EventRouteNotFound, nil, 0)
		return c.JSON(RouteResponse{
			Success: false,
			Path:    []models.Vertex{},
			Message: "no route between the selected points",
		})
	}

	distance := algorithms.PathDistance(path)
	s.recordRoute(req, models.EventRouteComputed, path, distance)
	log.Printf("✅ 경로 탐색 성공: %d개 정점, 거리 %.1f", len(path), distance)

	return c.JSON(RouteResponse{
		Success:         true,
		Path:            path,
		Distance:        distance,
		DisplayDistance: algorithms.RoundDistance(distance),
		Minutes:         algorithms.EstimateMinutes(distance, s.Config.WalkUnitsPerMinute),
	})
}

// HandleResolve - 정보 포인트를 문 정점으로 변환
func (s *Server) HandleResolve(c *fiber.Ctx) error {
	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	graph, err := s.Catalog.ActiveGraph(req.Floor)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}

	v, ok := graph.Vertex(req.VertexID)
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, "vertex not on this floor")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"vertex_id":  v.ID,
		"routing_id": services.ResolveRoutableVertex(v, graph),
	})
}

func (s *Server) recordRoute(req RouteRequest, eventType string, path []models.Vertex, distance float64) {
	if s.Recorder == nil {
		return
	}

	floorID := req.Floor
	if f, err := s.Catalog.Floor(req.Floor); err == nil {
		floorID = f.ID
	}
	s.Recorder.Record(models.NavigationLog{
		CreatedAt:  time.Now(),
		EventType:  eventType,
		SessionID:  "http",
		FloorID:    floorID,
		StartID:    req.Start,
		EndID:      req.End,
		PathLength: len(path),
		Distance:   distance,
	})
}
