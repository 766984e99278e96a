package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"news-chatbot/internal/domain"
)

// requestState names the per-request state machine stages. Each request is
// a fresh run of the machine; FAILED is reachable from any state.
type requestState string

const (
	stateReceived  requestState = "received"
	stateAnalyzed  requestState = "analyzed"
	stateRetrieved requestState = "retrieved"
	stateGenerated requestState = "generated"
	statePersisted requestState = "persisted"
	stateDone      requestState = "done"
	stateFailed    requestState = "failed"
)

// RespondInput carries one chat request.
type RespondInput struct {
	SessionID string
	Message   string
}

// RespondOutput is the answer plus the quality/persistence signals the
// caller surfaces.
type RespondOutput struct {
	Answer           string
	Degraded         bool // answered without retrieval grounding
	HistoryPersisted bool // false on a partial success (answer delivered, store write failed)
	Session          *domain.Session
}

// RespondUsecase is the top-level entry point composing the session
// coordinator, the retrieval pipeline and the generator.
type RespondUsecase interface {
	Handle(ctx context.Context, input RespondInput) (*RespondOutput, error)
	GetHistory(ctx context.Context, sessionID string) ([]domain.Message, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type respondUsecase struct {
	sessions      SessionCoordinator
	analyzer      QueryAnalyzer
	pipeline      RetrievalPipeline
	promptBuilder PromptBuilder
	generator     domain.Generator
	genTimeout    time.Duration
	logger        *slog.Logger
}

// NewRespondUsecase wires the components needed to answer a chat message.
func NewRespondUsecase(
	sessions SessionCoordinator,
	analyzer QueryAnalyzer,
	pipeline RetrievalPipeline,
	promptBuilder PromptBuilder,
	generator domain.Generator,
	genTimeout time.Duration,
	logger *slog.Logger,
) RespondUsecase {
	return &respondUsecase{
		sessions:      sessions,
		analyzer:      analyzer,
		pipeline:      pipeline,
		promptBuilder: promptBuilder,
		generator:     generator,
		genTimeout:    genTimeout,
		logger:        logger,
	}
}

func (u *respondUsecase) Handle(ctx context.Context, input RespondInput) (*RespondOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}
	if strings.TrimSpace(input.SessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	ctx, span := otel.Tracer("usecase").Start(ctx, "respond.handle")
	defer span.End()

	requestID := uuid.NewString()
	log := u.logger.With(
		slog.String("request_id", requestID),
		slog.String("session_id", input.SessionID))
	u.transition(log, stateReceived)

	session, err := u.sessions.Load(ctx, input.SessionID)
	if err != nil {
		// Load degrades internally; an error here is a programming bug.
		u.transition(log, stateFailed)
		return nil, fmt.Errorf("load session: %w", err)
	}

	intent := u.analyzer.Analyze(input.Message, session.Messages)
	u.transition(log, stateAnalyzed,
		slog.Bool("needs_retrieval", intent.NeedsRetrieval),
		slog.Any("categories", intent.CategoryFilter))

	bundle, degraded := u.retrieve(ctx, log, intent)
	u.transition(log, stateRetrieved,
		slog.Int("candidates", len(bundle.Candidates)),
		slog.Bool("degraded", degraded))

	answer, err := u.generate(ctx, session.Messages, bundle, input.Message)
	if err != nil {
		// Fatal: no meaningful answer without the generator. The session is
		// deliberately left untouched.
		u.transition(log, stateFailed, slog.String("error", err.Error()))
		return nil, err
	}
	u.transition(log, stateGenerated)

	now := time.Now()
	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Text:      input.Message,
		Timestamp: now,
	}
	assistantMsg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Text:      answer,
		Timestamp: now,
	}

	historyPersisted := true
	session, err = u.sessions.Append(ctx, input.SessionID, userMsg, assistantMsg)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionWriteIncomplete) {
			u.transition(log, stateFailed, slog.String("error", err.Error()))
			return nil, fmt.Errorf("append session: %w", err)
		}
		// Partial success: the answer is delivered, history persistence is
		// not guaranteed.
		historyPersisted = false
	}
	u.transition(log, statePersisted, slog.Bool("history_persisted", historyPersisted))

	u.transition(log, stateDone)
	return &RespondOutput{
		Answer:           answer,
		Degraded:         degraded,
		HistoryPersisted: historyPersisted,
		Session:          session,
	}, nil
}

// retrieve runs the pipeline and absorbs retrieval failures into the
// degraded continuation: conversation availability is prioritized over
// guaranteed grounding.
func (u *respondUsecase) retrieve(ctx context.Context, log *slog.Logger, intent domain.QueryIntent) (domain.ContextBundle, bool) {
	bundle, err := u.pipeline.Retrieve(ctx, intent)
	if err == nil {
		return bundle, false
	}
	log.Warn("retrieval_degraded", slog.String("error", err.Error()))
	return domain.ContextBundle{}, true
}

func (u *respondUsecase) generate(ctx context.Context, history []domain.Message, bundle domain.ContextBundle, message string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, u.genTimeout)
	defer cancel()

	contextText := u.promptBuilder.Build(bundle.AssembledText)
	answer, err := u.generator.Complete(genCtx, history, contextText, message)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationUnavailable)
	}
	return answer, nil
}

func (u *respondUsecase) GetHistory(ctx context.Context, sessionID string) ([]domain.Message, error) {
	session, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session.Messages, nil
}

func (u *respondUsecase) ClearSession(ctx context.Context, sessionID string) error {
	return u.sessions.Clear(ctx, sessionID)
}

func (u *respondUsecase) transition(log *slog.Logger, state requestState, attrs ...any) {
	args := append([]any{slog.String("state", string(state))}, attrs...)
	log.Info("chat_request_state", args...)
}
