package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentari-platform/mentari/internal/learners"
)

type memLearners struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*learners.Learner
}

func (m *memLearners) Create(_ context.Context, email, hash, name string) (*learners.Learner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := &learners.Learner{ID: uuid.New(), Email: learners.NormalizeEmail(email), PasswordHash: hash, DisplayName: name}
	m.byID[l.ID] = l
	return l, nil
}

func (m *memLearners) GetByEmail(_ context.Context, email string) (*learners.Learner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.byID {
		if l.Email == learners.NormalizeEmail(email) {
			return l, nil
		}
	}
	return nil, nil
}

func (m *memLearners) GetByID(_ context.Context, id uuid.UUID) (*learners.Learner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memLearners) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	l, _ := m.GetByEmail(ctx, email)
	return l != nil, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func post(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestRegisterLoginMe(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc, &memLearners{byID: map[uuid.UUID]*learners.Learner{}})

	rec, env := post(t, h.Register, `{"email":"ana@example.com","password":"correct-horse","display_name":"Ana"}`)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	rec, env = post(t, h.Register, `{"email":"ANA@example.com","password":"correct-horse"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = post(t, h.Login, `{"email":"ana@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = post(t, h.Login, `{"email":"ana@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Ana", claims.Name)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	me := httptest.NewRecorder()
	Middleware(svc)(http.HandlerFunc(h.Me)).ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"display_name":"Ana"`)
	assert.NotContains(t, me.Body.String(), "password")
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewHandler(svc, &memLearners{byID: map[uuid.UUID]*learners.Learner{}})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email":`},
		{"bad email", `{"email":"nope","password":"correct-horse"}`},
		{"short password", `{"email":"ana@example.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := post(t, h.Register, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
