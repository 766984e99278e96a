// Package chat_http exposes the chat pipeline over HTTP.
package chat_http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"news-chatbot/internal/domain"
	"news-chatbot/internal/usecase"
)

type Handler struct {
	respond usecase.RespondUsecase
}

func NewHandler(respond usecase.RespondUsecase) *Handler {
	return &Handler{respond: respond}
}

// RegisterRoutes mounts the chat endpoints on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat/query", h.Query)
	g.POST("/chat/session", h.CreateSession)
	g.GET("/chat/history/:session_id", h.History)
	g.DELETE("/chat/clear/:session_id", h.Clear)
}

type queryRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type queryResponse struct {
	SessionID        string           `json:"session_id"`
	Answer           string           `json:"answer"`
	Degraded         bool             `json:"degraded"`
	HistoryPersisted bool             `json:"history_persisted"`
	Messages         []domain.Message `json:"messages"`
}

// Query answers a chat message.
// (POST /v1/chat/query)
func (h *Handler) Query(ctx echo.Context) error {
	var req queryRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	output, err := h.respond.Handle(ctx.Request().Context(), usecase.RespondInput{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGenerationUnavailable) {
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"error": "answer generation unavailable"})
		}
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	resp := queryResponse{
		SessionID:        req.SessionID,
		Answer:           output.Answer,
		Degraded:         output.Degraded,
		HistoryPersisted: output.HistoryPersisted,
	}
	if output.Session != nil {
		resp.Messages = output.Session.Messages
	}
	return ctx.JSON(http.StatusOK, resp)
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession mints a fresh session identifier. No state is written
// until the first message arrives.
// (POST /v1/chat/session)
func (h *Handler) CreateSession(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, sessionResponse{
		SessionID: uuid.NewString(),
		CreatedAt: time.Now(),
	})
}

type historyResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages"`
}

// History returns the stored conversation. An unknown or expired session
// comes back as an empty list, indistinguishable from a fresh one.
// (GET /v1/chat/history/:session_id)
func (h *Handler) History(ctx echo.Context) error {
	sessionID := ctx.Param("session_id")
	if sessionID == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	messages, err := h.respond.GetHistory(ctx.Request().Context(), sessionID)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return ctx.JSON(http.StatusOK, historyResponse{
		SessionID: sessionID,
		Messages:  messages,
	})
}

// Clear drops a session. Clearing a session that does not exist succeeds.
// (DELETE /v1/chat/clear/:session_id)
func (h *Handler) Clear(ctx echo.Context) error {
	sessionID := ctx.Param("session_id")
	if sessionID == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}

	if err := h.respond.ClearSession(ctx.Request().Context(), sessionID); err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"session_id": sessionID, "status": "cleared"})
}
