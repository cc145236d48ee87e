package http

import (
	"context"
	"encoding/json"
	"time"

	"campaignqa-srv/internal/run"
	"campaignqa-srv/pkg/response"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamPingInterval = 30 * time.Second
)

// @Summary Stream run progress
// @Description WebSocket. Sends the current state, then one JSON message per progress or completion event. Closes after completion
// @Tags Run
// @Param run_id path string true "Run ID"
// @Success 101
// @Failure 404 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/{run_id}/stream [get]
func (h *handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processRunRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	sub, err := h.uc.Watch(ctx, sc, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "run.delivery.http.Stream: usecase Watch failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}
	defer sub.Close()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.allowedOrigins,
	})
	if err != nil {
		h.l.Warnf(ctx, "run.delivery.http.Stream: websocket.Accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	// The client sends nothing; CloseRead handles its close frame and cancels ctx.
	ctx = conn.CloseRead(ctx)

	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			pingCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case ev, ok := <-sub.Events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := h.writeEvent(ctx, conn, ev); err != nil {
				h.l.Debugf(ctx, "run.delivery.http.Stream: write to %s failed: %v", ev.RunID, err)
				return
			}
			if ev.Type == run.EventCompleted {
				conn.Close(websocket.StatusNormalClosure, "run finished")
				return
			}
		}
	}
}

func (h *handler) writeEvent(ctx context.Context, conn *websocket.Conn, ev run.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
