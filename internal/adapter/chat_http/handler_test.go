package chat_http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-chatbot/internal/adapter/chat_http"
	"news-chatbot/internal/domain"
	"news-chatbot/internal/usecase"
)

type stubRespondUsecase struct {
	output  *usecase.RespondOutput
	err     error
	history []domain.Message
	cleared []string
}

func (s *stubRespondUsecase) Handle(ctx context.Context, input usecase.RespondInput) (*usecase.RespondOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

func (s *stubRespondUsecase) GetHistory(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return s.history, nil
}

func (s *stubRespondUsecase) ClearSession(ctx context.Context, sessionID string) error {
	s.cleared = append(s.cleared, sessionID)
	return nil
}

func newServer(stub *stubRespondUsecase) *echo.Echo {
	e := echo.New()
	chat_http.NewHandler(stub).RegisterRoutes(e.Group("/v1"))
	return e
}

func TestQuery_OK(t *testing.T) {
	stub := &stubRespondUsecase{
		output: &usecase.RespondOutput{
			Answer:           "The bill advanced.",
			Degraded:         false,
			HistoryPersisted: true,
			Session: &domain.Session{
				ID: "s1",
				Messages: []domain.Message{
					{Role: domain.RoleUser, Text: "Tell me about AI regulation"},
					{Role: domain.RoleAssistant, Text: "The bill advanced."},
				},
			},
		},
	}
	e := newServer(stub)

	body, _ := json.Marshal(map[string]string{
		"session_id": "s1",
		"message":    "Tell me about AI regulation",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/query", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp["session_id"])
	assert.Equal(t, "The bill advanced.", resp["answer"])
	assert.Equal(t, false, resp["degraded"])
	assert.Equal(t, true, resp["history_persisted"])
	assert.Len(t, resp["messages"], 2)
}

func TestQuery_MissingMessageIs400(t *testing.T) {
	e := newServer(&stubRespondUsecase{})

	body, _ := json.Marshal(map[string]string{"session_id": "s1", "message": "  "})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/query", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_MissingSessionIs400(t *testing.T) {
	e := newServer(&stubRespondUsecase{})

	body, _ := json.Marshal(map[string]string{"message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/query", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_GenerationUnavailableIs503(t *testing.T) {
	e := newServer(&stubRespondUsecase{err: domain.ErrGenerationUnavailable})

	body, _ := json.Marshal(map[string]string{"session_id": "s1", "message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/query", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateSession_MintsUUID(t *testing.T) {
	e := newServer(&stubRespondUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SessionID string    `json:"session_id"`
		CreatedAt time.Time `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.SessionID)
	assert.NoError(t, err)
	assert.False(t, resp.CreatedAt.IsZero())
}

func TestHistory_ReturnsMessages(t *testing.T) {
	stub := &stubRespondUsecase{history: []domain.Message{
		{Role: domain.RoleUser, Text: "q"},
		{Role: domain.RoleAssistant, Text: "a"},
	}}
	e := newServer(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/history/s1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp["session_id"])
	assert.Len(t, resp["messages"], 2)
}

func TestHistory_UnknownSessionIsEmptyList(t *testing.T) {
	e := newServer(&stubRespondUsecase{})

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/history/unknown", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	messages, ok := resp["messages"].([]any)
	require.True(t, ok, "messages must serialize as a list, not null")
	assert.Empty(t, messages)
}

func TestClear_DelegatesToUsecase(t *testing.T) {
	stub := &stubRespondUsecase{}
	e := newServer(stub)

	req := httptest.NewRequest(http.MethodDelete, "/v1/chat/clear/s1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"s1"}, stub.cleared)
}
