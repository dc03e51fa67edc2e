package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dashboard"
)

const (
	defaultHeartbeat = 25 * time.Second
	wsWriteTimeout   = 10 * time.Second
)

// DashboardHandler 实时看板 HTTP 处理器（SSE 与 WebSocket）
type DashboardHandler struct {
	hub       *dashboard.Hub
	source    dashboard.SnapshotSource
	heartbeat time.Duration
	upgrader  websocket.Upgrader
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(cfg *config.DashboardConfig, hub *dashboard.Hub, source dashboard.SnapshotSource) *DashboardHandler {
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &DashboardHandler{
		hub:       hub,
		source:    source,
		heartbeat: heartbeat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 连接须携带有效 Token
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream 看板事件流
// GET /api/dashboard/stream?token=
func (h *DashboardHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	id, events, err := h.hub.Connect(ctx, h.source)
	if err != nil {
		respondError(c, err)
		return
	}
	defer h.hub.Unregister(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(evt.Name, evt.Data)
			c.Writer.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// WebSocket 看板 WebSocket 推送，JSON 文本帧
// GET /api/dashboard/ws?token=
func (h *DashboardHandler) WebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失败时已写入 HTTP 错误响应
		_ = c.Error(err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	id, events, err := h.hub.Connect(ctx, h.source)
	if err != nil {
		_ = c.Error(err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "snapshot unavailable"),
			time.Now().Add(wsWriteTimeout))
		return
	}
	defer h.hub.Unregister(id)

	// 只读协程：处理控制帧，连接断开时结束推送
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(wsWriteTimeout))
				return
			}
			_ = ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := ws.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
