package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentari-platform/mentari/internal/auth"
	"github.com/mentari-platform/mentari/internal/brain"
	"github.com/mentari-platform/mentari/internal/quota"
)

type echoBrain struct {
	mu   sync.Mutex
	reqs []brain.Request
}

func (e *echoBrain) Respond(_ context.Context, req brain.Request) brain.Envelope {
	e.mu.Lock()
	e.reqs = append(e.reqs, req)
	e.mu.Unlock()
	return brain.Envelope{Text: "echo: " + req.Message, QuizStatus: "active"}
}

func (e *echoBrain) last() brain.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reqs[len(e.reqs)-1]
}

type countingLimiter struct {
	mu    sync.Mutex
	limit int
	seen  map[string]int
}

func (c *countingLimiter) Allow(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = map[string]int{}
	}
	if c.seen[key] >= c.limit {
		return quota.ErrExceeded
	}
	c.seen[key]++
	return nil
}

type response struct {
	Data struct {
		SessionID  string `json:"session_id"`
		Text       string `json:"text"`
		QuizStatus string `json:"quiz_status"`
	} `json:"data"`
	Error string `json:"error"`
}

func postMessage(t *testing.T, h *Handler, body string, edit func(*http.Request)) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	if edit != nil {
		edit(req)
	}
	rec := httptest.NewRecorder()
	h.Message(rec, req)
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestMessageMintsSession(t *testing.T) {
	b := &echoBrain{}
	h := NewHandler(b, nil, nil)

	rec, resp := postMessage(t, h, `{"message":"  hello  "}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "echo: hello", resp.Data.Text)
	assert.Equal(t, "active", resp.Data.QuizStatus)
	require.NotEmpty(t, resp.Data.SessionID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, resp.Data.SessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Empty(t, b.last().UserID)
}

func TestMessageSessionSources(t *testing.T) {
	tests := []struct {
		name string
		body string
		edit func(*http.Request)
		want string
	}{
		{"body wins", `{"message":"hi","session_id":"from-body"}`, func(r *http.Request) {
			r.Header.Set(SessionHeader, "from-header")
		}, "from-body"},
		{"header", `{"message":"hi"}`, func(r *http.Request) {
			r.Header.Set(SessionHeader, "from-header")
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
		}, "from-header"},
		{"cookie", `{"message":"hi"}`, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
		}, "from-cookie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &echoBrain{}
			rec, resp := postMessage(t, NewHandler(b, nil, nil), tt.body, tt.edit)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, resp.Data.SessionID)
			assert.Equal(t, tt.want, b.last().SessionID)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestMessageCarriesIdentity(t *testing.T) {
	b := &echoBrain{}
	h := NewHandler(b, nil, nil)

	claims := &auth.AccessClaims{Identity: auth.Identity{UserID: "u-1", Name: "Ana"}}
	_, _ = postMessage(t, h, `{"message":"hi","session_id":"s1"}`, func(r *http.Request) {
		*r = *r.WithContext(auth.WithClaims(r.Context(), claims))
	})

	got := b.last()
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "Ana", got.DisplayName)
}

func TestMessageValidation(t *testing.T) {
	h := NewHandler(&echoBrain{}, nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"message":`},
		{"blank", `{"message":"   "}`},
		{"too long", `{"message":"` + strings.Repeat("a", 2001) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := postMessage(t, h, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestMessageQuota(t *testing.T) {
	h := NewHandler(&echoBrain{}, &countingLimiter{limit: 1}, nil)
	session := func(r *http.Request) { r.Header.Set(SessionHeader, "s1") }

	rec, _ := postMessage(t, h, `{"message":"one"}`, session)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := postMessage(t, h, `{"message":"two"}`, session)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, resp.Error, "quota")
}

func TestStream(t *testing.T) {
	b := &echoBrain{}
	h := NewHandler(b, &countingLimiter{limit: 2}, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.Stream))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?session_id=ws-1"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	type frame struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
		Error     string `json:"error"`
	}
	exchange := func(payload string) frame {
		t.Helper()
		require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(payload)))
		var f frame
		require.NoError(t, wsjson.Read(ctx, conn, &f))
		return f
	}

	f := exchange(`{"message":"hello"}`)
	assert.Equal(t, frame{SessionID: "ws-1", Text: "echo: hello"}, f)

	f = exchange(`not json`)
	assert.Equal(t, "bad request", f.Error)

	f = exchange(`{"message":""}`)
	assert.Contains(t, f.Error, "validation error")

	f = exchange(`{"message":"second"}`)
	assert.Equal(t, "echo: second", f.Text)

	f = exchange(`{"message":"third"}`)
	assert.Contains(t, f.Error, "quota")

	conn.Close(websocket.StatusNormalClosure, "bye")
	assert.Equal(t, "ws-1", b.last().SessionID)
}

func TestOriginPatterns(t *testing.T) {
	got := OriginPatterns([]string{"http://localhost:3000", "https://tutor.example/", "*", ""})
	assert.Equal(t, []string{"localhost:3000", "tutor.example", "*"}, got)
}
