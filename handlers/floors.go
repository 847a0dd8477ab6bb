package handlers

import (
	"indoor-nav-backend/models"
	"indoor-nav-backend/services"

	"github.com/gofiber/fiber/v2"
)

// LocationResult - 검색 결과 한 건
type LocationResult struct {
	Vertex      models.Vertex `json:"vertex"`
	DisplayName string        `json:"display_name"`
	ShortName   string        `json:"short_name"`
	LabelParts  [2]string     `json:"label_parts"`
	RoutingID   string        `json:"routing_id"`
}

// HandleListFloors - 층 목록
func (s *Server) HandleListFloors(c *fiber.Ctx) error {
	floors := s.Catalog.Summaries()
	return c.JSON(fiber.Map{
		"success":       true,
		"count":         len(floors),
		"default_floor": s.Config.DefaultFloor,
		"floors":        floors,
	})
}

// HandleFloorGraph - 좌표 보정이 적용된 층 그래프
func (s *Server) HandleFloorGraph(c *fiber.Ctx) error {
	index, err := s.floorParam(c)
	if err != nil {
		return err
	}

	floor, err := s.Catalog.Floor(index)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}
	graph, err := s.Catalog.ActiveGraph(index)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"floor":   floor,
		"graph":   graph,
	})
}

// HandleSearchLocations - 층 내 위치 검색 (?q=)
func (s *Server) HandleSearchLocations(c *fiber.Ctx) error {
	index, err := s.floorParam(c)
	if err != nil {
		return err
	}

	graph, err := s.Catalog.ActiveGraph(index)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}

	query := c.Query("q")
	matches := services.SearchLocations(query, graph, s.Rooms)

	results := make([]LocationResult, 0, len(matches))
	for _, v := range matches {
		results = append(results, LocationResult{
			Vertex:      v,
			DisplayName: services.DisplayName(v.ObjectName, s.Rooms),
			ShortName:   services.ShortDisplayName(v.ObjectName, s.Rooms),
			LabelParts:  services.ShortLabelParts(v.ObjectName, s.Rooms),
			RoutingID:   services.ResolveRoutableVertex(v, graph),
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"query":     query,
		"count":     len(results),
		"locations": results,
	})
}

// HandleListRooms - 전체 방 정보
func (s *Server) HandleListRooms(c *fiber.Ctx) error {
	rooms := s.Rooms.All()
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(rooms),
		"rooms":   rooms,
	})
}

// HandleGetRoom - 방 정보 조회
func (s *Server) HandleGetRoom(c *fiber.Ctx) error {
	room, ok := s.Rooms.Lookup(c.Params("id"))
	if !ok {
		return errorResponse(c, fiber.StatusNotFound, "room not found")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"room":    room,
	})
}
