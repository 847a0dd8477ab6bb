package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"indoor-nav-backend/models"
	"indoor-nav-backend/services"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var errMissingPayload = errors.New("message data is required")

// OpenSession - 새 선택 세션 생성 및 등록
func (s *Server) OpenSession(floor int, conn messageWriter) (*Session, error) {
	session := &Session{
		ID:          uuid.NewString(),
		ConnectedAt: time.Now(),
		conn:        conn,
	}

	nav, err := services.NewNavigator(s.Catalog, floor, services.NavigatorOptions{
		SessionID:      session.ID,
		Rooms:          s.Rooms,
		Recorder:       s.Recorder,
		ErrorDisplay:   s.Config.ErrorDisplay,
		TooltipDelay:   s.Config.TooltipDelay,
		UnitsPerMinute: s.Config.WalkUnitsPerMinute,
		OnChange:       session.pushState,
	})
	if err != nil {
		return nil, err
	}
	session.Nav = nav

	s.Sessions.Register(session)
	return session, nil
}

// HandleNavWebSocket - 길찾기 선택 세션 (/websocket/nav?floor=N)
func (s *Server) HandleNavWebSocket(c *websocket.Conn) {
	floor := s.Config.DefaultFloor
	if raw := c.Query("floor"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			floor = n
		}
	}

	session, err := s.OpenSession(floor, c)
	if err != nil {
		log.Printf("❌ 세션 생성 실패 (%s): %v", c.RemoteAddr(), err)
		_ = c.WriteJSON(models.WebSocketMessage{
			Type:      models.MessageTypeError,
			Data:      errorPayload(err),
			Timestamp: time.Now().UnixMilli(),
		})
		_ = c.Close()
		return
	}
	defer s.Sessions.Unregister(session.ID)

	// 연결 확인 메시지 + 초기 상태
	_ = session.Send(models.MessageTypeSystemInfo, models.SystemInfo{
		SessionID:  session.ID,
		FloorIndex: floor,
		Floors:     s.Catalog.Len(),
		ServerTime: time.Now().Format(time.RFC3339),
	})
	_ = session.Send(models.MessageTypeState, session.Nav.Snapshot())

	for {
		var msg models.ClientMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.Printf("웹 메시지 읽기 오류 [%s]: %v", session.ID, err)
			break
		}

		if err := handleClientMessage(session.Nav, msg); err != nil {
			log.Printf("⚠️ 메시지 처리 실패 [%s] %s: %v", session.ID, msg.Type, err)
			_ = session.Send(models.MessageTypeError, map[string]interface{}{
				"type":    msg.Type,
				"message": err.Error(),
			})
		}
	}
}

func errorPayload(err error) map[string]interface{} {
	return map[string]interface{}{"message": err.Error()}
}

// handleClientMessage - 클라이언트 메시지 → Navigator 이벤트
func handleClientMessage(nav *services.Navigator, msg models.ClientMessage) error {
	switch msg.Type {
	case models.MessageTypeArmSelection:
		var p models.RolePayload
		if err := decodePayload(msg.Data, &p); err != nil {
			return err
		}
		return nav.ArmSelection(p.Role)

	case models.MessageTypePickVertex:
		var p models.VertexPayload
		if err := decodePayload(msg.Data, &p); err != nil {
			return err
		}
		return nav.PickVertexByID(p.VertexID)

	case models.MessageTypePromote:
		var p models.RolePayload
		if err := decodePayload(msg.Data, &p); err != nil {
			return err
		}
		return nav.PromoteToRole(p.Role)

	case models.MessageTypeClearEndpoint:
		var p models.RolePayload
		if err := decodePayload(msg.Data, &p); err != nil {
			return err
		}
		return nav.ClearEndpoint(p.Role)

	case models.MessageTypeClearRoute:
		nav.ClearRoute()

	case models.MessageTypeChangeFloor:
		var p models.FloorPayload
		if err := decodePayload(msg.Data, &p); err != nil {
			return err
		}
		return nav.ChangeFloor(p.Floor)

	case models.MessageTypeHoverStart:
		var p models.VertexPayload
		if err := decodePayload(msg.Data, &p); err != nil {
			return err
		}
		nav.HoverStart(p.VertexID)

	case models.MessageTypeHoverEnd:
		nav.HoverEnd()

	case models.MessageTypeCloseInspector:
		nav.CloseInspector()

	default:
		return fmt.Errorf("%w: %q", services.ErrUnknownEvent, msg.Type)
	}
	return nil
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errMissingPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid message data: %w", err)
	}
	return nil
}
