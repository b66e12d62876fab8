package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mentari-platform/mentari/internal/api"
)

const (
	wsReadLimit    = 8 << 10
	wsWriteTimeout = 10 * time.Second
)

// wsInbound is one client frame.
type wsInbound struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// wsOutbound is either a response envelope or an error.
type wsOutbound struct {
	*MessageResponse
	Error string `json:"error,omitempty"`
}

// Stream handles GET /api/v1/chat/ws. The session is fixed for the lifetime
// of the connection.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	sid, fresh := sessionID(r, r.URL.Query().Get("session_id"))
	if fresh {
		setSessionCookie(w, r, sid)
	}

	// Lift the server's read and write timeouts for the life of the stream.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		slog.Warn("chat: websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(wsReadLimit)

	ctx := r.Context()
	slog.Debug("chat: websocket opened", "session_id", sid)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			h.logClose(err, sid)
			return
		}

		var out wsOutbound
		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil {
			out = wsOutbound{Error: api.ErrBadRequest.Message}
		} else {
			out = h.streamTurn(ctx, in, sid)
		}
		if err := h.write(ctx, conn, out); err != nil {
			slog.Debug("chat: websocket write failed", "error", err, "session_id", sid)
			return
		}
	}
}

func (h *Handler) streamTurn(ctx context.Context, in wsInbound, sid string) wsOutbound {
	in.Message = strings.TrimSpace(in.Message)
	if err := h.validate.Struct(in); err != nil {
		return wsOutbound{Error: "validation error: " + err.Error()}
	}

	breq := brainRequest(ctx, in.Message, sid)
	if err := h.admit(ctx, breq); err != nil {
		var appErr *api.AppError
		if errors.As(err, &appErr) {
			return wsOutbound{Error: appErr.Message}
		}
		return wsOutbound{Error: api.ErrInternalServer.Message}
	}

	env := h.brain.Respond(ctx, breq)
	return wsOutbound{MessageResponse: &MessageResponse{SessionID: sid, Envelope: env}}
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, out wsOutbound) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, out)
}

func (h *Handler) logClose(err error, sid string) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		slog.Debug("chat: websocket closed", "session_id", sid)
	default:
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Warn("chat: websocket read failed", "error", err, "session_id", sid)
	}
}

// OriginPatterns turns CORS origins such as "https://app.example:3000"
// into the host patterns websocket.Accept matches against.
func OriginPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		if o = strings.TrimSuffix(o, "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
