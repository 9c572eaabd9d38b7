package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"promostore/internal/adapter/api/middleware"
	"promostore/internal/domain/entity"
	"promostore/internal/domain/repository"
	ws "promostore/internal/infrastructure/websocket"
	"promostore/internal/usecase"
	"promostore/pkg/errors"
	"promostore/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler hosts one chat session per socket. The socket is bound to
// a single order; switching orders means a new connection.
type WebSocketHandler struct {
	chatStore      *usecase.ChatStore
	feed           repository.MessageFeed
	orderUseCase   *usecase.OrderUseCase
	profileUseCase *usecase.ProfileUseCase
	authMiddleware *middleware.AuthMiddleware
	manager        *ws.Manager
}

func NewWebSocketHandler(
	chatStore *usecase.ChatStore,
	feed repository.MessageFeed,
	orderUseCase *usecase.OrderUseCase,
	profileUseCase *usecase.ProfileUseCase,
	authMiddleware *middleware.AuthMiddleware,
	manager *ws.Manager,
) *WebSocketHandler {
	return &WebSocketHandler{
		chatStore:      chatStore,
		feed:           feed,
		orderUseCase:   orderUseCase,
		profileUseCase: profileUseCase,
		authMiddleware: authMiddleware,
		manager:        manager,
	}
}

// inboundFrame is what the browser sends on the socket. Attachment bytes
// travel base64-encoded inside the JSON frame.
type inboundFrame struct {
	Message     string `json:"message"`
	Attachments []struct {
		Name string `json:"name"`
		Data string `json:"data"`
	} `json:"attachments"`
}

// outboundFrame is what the server pushes: a history snapshot right after
// the session opens, then one frame per session update, plus error frames
// for rejected sends.
type outboundFrame struct {
	Type     string           `json:"type"`
	Messages []entity.Message `json:"messages,omitempty"`
	Update   *usecase.Update  `json:"update,omitempty"`
	Code     string           `json:"code,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// HandleChat upgrades the connection and runs the order's chat session over
// it until the client disconnects.
func (h *WebSocketHandler) HandleChat(c echo.Context) error {
	orderID := c.Param("id")
	ctx := c.Request().Context()

	// Browsers cannot set headers on websocket dials, so the token rides a
	// query parameter.
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	uid, err := h.authMiddleware.GetUIDFromToken(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	profile, err := h.profileUseCase.GetProfile(ctx, uid)
	if err != nil {
		profile = &entity.Profile{ID: uid}
	}

	if _, err := h.orderUseCase.GetOrder(ctx, uid, orderID, profile.IsAdmin); err != nil {
		if errors.Is(err, "FORBIDDEN") {
			return echo.NewHTTPError(http.StatusForbidden, "You do not have access to this order")
		}
		return echo.NewHTTPError(http.StatusNotFound, "Order not found")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Failed to upgrade chat socket for order %s: %v", orderID, err)
		return err
	}

	client := &ws.Client{
		UserID:  uid,
		OrderID: orderID,
		Conn:    conn,
		Send:    make(chan []byte, 64),
	}
	h.manager.Register <- client
	go client.WritePump()

	session := usecase.NewChatSession(h.chatStore, h.feed, orderID, *profile)
	if err := session.Open(ctx); err != nil {
		logger.Error("Failed to open chat session for order %s: %v", orderID, err)
		h.sendFrame(client, outboundFrame{Type: "error", Code: "STORE_ERROR", Error: "Failed to load conversation"})
		h.manager.Unregister <- client
		return nil
	}

	h.sendFrame(client, outboundFrame{Type: "snapshot", Messages: session.Messages()})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range session.Updates() {
			update := update
			h.sendFrame(client, outboundFrame{Type: "update", Update: &update})
		}
	}()

	h.readPump(c, client, session)

	session.Close()
	<-done
	h.manager.Unregister <- client

	return nil
}

// readPump consumes inbound frames until the socket drops. Malformed frames
// and rejected sends answer with an error frame instead of tearing the
// connection down.
func (h *WebSocketHandler) readPump(c echo.Context, client *ws.Client, session *usecase.ChatSession) {
	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Chat socket read error: %v", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.sendFrame(client, outboundFrame{Type: "error", Code: "BAD_REQUEST", Error: "Malformed frame"})
			continue
		}

		files := make([]usecase.AttachmentInput, 0, len(frame.Attachments))
		for _, att := range frame.Attachments {
			raw, err := base64.StdEncoding.DecodeString(att.Data)
			if err != nil {
				h.sendFrame(client, outboundFrame{Type: "error", Code: "BAD_REQUEST", Error: "Attachment data must be base64"})
				continue
			}
			files = append(files, usecase.AttachmentInput{Name: att.Name, Data: raw})
		}

		// A trivially empty send returns (nil, nil); nothing to report.
		if _, err := session.SendMessage(c.Request().Context(), frame.Message, files); err != nil {
			code := "INTERNAL_ERROR"
			if appErr, ok := err.(*errors.AppError); ok {
				code = appErr.Code
			}
			h.sendFrame(client, outboundFrame{Type: "error", Code: code, Error: err.Error()})
		}
	}
}

func (h *WebSocketHandler) sendFrame(client *ws.Client, frame outboundFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case client.Send <- payload:
	default:
	}
}
