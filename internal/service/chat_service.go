package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-chat-be/internal/constant"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/limiter"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	"ai-chat-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IChatService defines the chat service interface
type IChatService interface {
	// SendChat runs one full conversation turn: resolve-or-create the
	// session, record the user turn, generate, record the model turn.
	SendChat(ctx context.Context, caller string, sessionId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetAllSessions(ctx context.Context, caller string) (*dto.ListSessionsResponse, error)
	GetSession(ctx context.Context, caller string, sessionId uuid.UUID) (*dto.GetSessionResponse, error)
	RenameSession(ctx context.Context, caller string, sessionId uuid.UUID, request *dto.RenameSessionRequest) (*dto.RenameSessionResponse, error)
	DeleteSession(ctx context.Context, caller string, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	llmProvider       llm.LLMProvider
	usage             limiter.UsageLimiter
	publisher         message.Publisher
	log               logger.ILogger
	generationTimeout time.Duration
	now               func() time.Time
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	usage limiter.UsageLimiter,
	publisher message.Publisher,
	log logger.ILogger,
	generationTimeout time.Duration,
) IChatService {
	if generationTimeout <= 0 {
		generationTimeout = 60 * time.Second
	}
	return &chatService{
		uowFactory:        uowFactory,
		llmProvider:       llmProvider,
		usage:             usage,
		publisher:         publisher,
		log:               log,
		generationTimeout: generationTimeout,
		now:               time.Now,
	}
}

func (cs *chatService) SendChat(ctx context.Context, caller string, sessionId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	prompt := strings.TrimSpace(request.Prompt)
	if prompt == "" {
		return nil, serverutils.NewValidationError("Prompt is required")
	}

	allowed, err := cs.usage.Consume(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, serverutils.NewLimitExceededError("Daily generation limit exceeded")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	// ResolveSession: a supplied id must resolve to a session owned by the
	// caller; otherwise a fresh session is created.
	var session *entity.ChatSession
	if sessionId != uuid.Nil {
		session, err = uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: sessionId},
			specification.OwnedBy{Owner: caller},
		)
		if err != nil {
			return nil, err
		}
	}

	created := false
	if session == nil {
		session = &entity.ChatSession{
			Id:        uuid.New(),
			Owner:     caller,
			Name:      cs.suggestTitle(ctx, prompt),
			CreatedAt: cs.now(),
			UpdatedAt: cs.now(),
		}
		created = true
	}

	// AssembleHistory before the user turn is recorded, so the in-flight
	// prompt is never double-counted in the backend call.
	var history []llm.Message
	if !created {
		prior, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
			specification.ChronologicalOrder{},
		)
		if err != nil {
			return nil, err
		}
		history = BuildHistory(prior)
	}

	// RecordUserTurn is committed before generation: a crash or backend
	// failure leaves the unanswered prompt in the log, not a lost turn.
	userTurn := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       prompt,
		CreatedAt:     cs.now(),
	}
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if created {
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if err := cs.appendTurn(ctx, uow, userTurn); err != nil {
		uow.Rollback()
		return nil, err
	}
	if !created {
		session.UpdatedAt = cs.now()
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			uow.Rollback()
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Generate
	started := cs.now()
	genCtx, cancel := context.WithTimeout(ctx, cs.generationTimeout)
	defer cancel()

	reply, err := cs.llmProvider.Chat(genCtx, append(history, llm.Message{
		Role:    constant.LLMRoleUser,
		Content: prompt,
	}))
	if err != nil {
		return nil, serverutils.NewGenerationError(err)
	}
	elapsed := cs.now().Sub(started)
	if strings.TrimSpace(reply) == "" {
		reply = constant.EmptyGenerationFallback
	}

	// RecordModelTurn
	modelTurn := &entity.ChatMessage{
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleModel,
		Content:       reply,
		Meta: &entity.GenerationMeta{
			Provider:  cs.llmProvider.Name(),
			Model:     cs.llmProvider.Model(),
			ElapsedMs: elapsed.Milliseconds(),
		},
		CreatedAt: cs.now(),
	}
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := cs.appendTurn(ctx, uow, modelTurn); err != nil {
		uow.Rollback()
		return nil, err
	}
	session.UpdatedAt = cs.now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.publish(events.NewTurnRecorded(session.Id, caller, elapsed))
	if created {
		cs.publish(events.NewSessionCreated(session.Id, caller))
	}

	response := &dto.SendChatResponse{
		Message:   reply,
		SessionId: session.Id,
	}
	if created {
		response.SessionName = session.Name
	}
	return response, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, caller string) (*dto.ListSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{Owner: caller},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := &dto.ListSessionsResponse{
		Sessions: make([]*dto.SessionDTO, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, sessionToDTO(s))
	}
	return response, nil
}

func (cs *chatService) GetSession(ctx context.Context, caller string, sessionId uuid.UUID) (*dto.GetSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.resolveOwned(ctx, uow, caller, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ChronologicalOrder{},
	)
	if err != nil {
		return nil, err
	}

	response := &dto.GetSessionResponse{
		Session:  sessionToDTO(session),
		Messages: make([]*dto.MessageDTO, 0, len(messages)),
	}
	for _, m := range messages {
		response.Messages = append(response.Messages, &dto.MessageDTO{
			Id:        m.Id,
			SessionId: m.ChatSessionId,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) RenameSession(ctx context.Context, caller string, sessionId uuid.UUID, request *dto.RenameSessionRequest) (*dto.RenameSessionResponse, error) {
	newName := strings.TrimSpace(request.NewName)
	if newName == "" {
		return nil, serverutils.NewValidationError("New name is required")
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.resolveOwned(ctx, uow, caller, sessionId)
	if err != nil {
		return nil, err
	}

	session.Name = newName
	session.UpdatedAt = cs.now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.RenameSessionResponse{
		Message: "Session renamed",
		Session: sessionToDTO(session),
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, caller string, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.resolveOwned(ctx, uow, caller, sessionId); err != nil {
		return nil, err
	}

	messageCount, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
	)
	if err != nil {
		return nil, err
	}

	// Messages then session, in one transaction; a crash in between must
	// not leave orphaned messages.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.publish(events.NewSessionDeleted(sessionId, caller, messageCount))

	return &dto.DeleteSessionResponse{
		Message:   "Session deleted",
		SessionId: sessionId,
	}, nil
}

// resolveOwned loads a session only when it exists and belongs to the
// caller. Both absence and foreign ownership surface as the same
// not-found error, so existence is never disclosed across owners.
func (cs *chatService) resolveOwned(ctx context.Context, uow unitofwork.UnitOfWork, caller string, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{Owner: caller},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, serverutils.NewNotFoundError("Session not found")
	}
	return session, nil
}

func (cs *chatService) appendTurn(ctx context.Context, uow unitofwork.UnitOfWork, turn *entity.ChatMessage) error {
	if strings.TrimSpace(turn.Content) == "" {
		return serverutils.NewValidationError("Message content is required")
	}
	return uow.ChatMessageRepository().Create(ctx, turn)
}

// suggestTitle asks the backend for a short session label. Best effort:
// any failure or empty answer falls back to a timestamped default so
// session creation never blocks on the title.
func (cs *chatService) suggestTitle(ctx context.Context, prompt string) string {
	titleCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	title, err := cs.llmProvider.Generate(titleCtx,
		fmt.Sprintf(constant.SuggestTitlePromptV1, prompt))
	if err != nil {
		cs.log.Warn("chat", "Title suggestion failed, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return cs.fallbackTitle()
	}

	title = strings.Trim(strings.TrimSpace(title), `"`)
	if title == "" {
		return cs.fallbackTitle()
	}
	return truncateTitle(title, constant.SessionTitleMaxLength)
}

// truncateTitle cuts on a rune boundary so a multibyte character straddling
// the limit never yields an invalid-UTF-8 name.
func truncateTitle(title string, maxBytes int) string {
	if len(title) <= maxBytes {
		return title
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

func (cs *chatService) fallbackTitle() string {
	return "Chat " + cs.now().Format("2006-01-02 15:04:05")
}

func (cs *chatService) publish(event events.Event) {
	if cs.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"data":        event.Payload(),
		"occurred_at": event.Timestamp(),
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := cs.publisher.Publish(events.TopicChatActivity, msg); err != nil {
		cs.log.Warn("chat", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func sessionToDTO(s *entity.ChatSession) *dto.SessionDTO {
	return &dto.SessionDTO{
		Id:        s.Id,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
