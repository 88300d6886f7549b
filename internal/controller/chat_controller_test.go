package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "test-secret"

// stubChatService records the arguments of the last call and plays back
// canned responses per operation.
type stubChatService struct {
	sendRes   *dto.SendChatResponse
	sendErr   error
	listRes   *dto.ListSessionsResponse
	getRes    *dto.GetSessionResponse
	getErr    error
	renameRes *dto.RenameSessionResponse
	renameErr error
	deleteRes *dto.DeleteSessionResponse
	deleteErr error

	lastCaller    string
	lastSessionId uuid.UUID
	lastPrompt    string
}

func (s *stubChatService) SendChat(ctx context.Context, caller string, sessionId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	s.lastCaller = caller
	s.lastSessionId = sessionId
	s.lastPrompt = req.Prompt
	return s.sendRes, s.sendErr
}

func (s *stubChatService) GetAllSessions(ctx context.Context, caller string) (*dto.ListSessionsResponse, error) {
	s.lastCaller = caller
	return s.listRes, nil
}

func (s *stubChatService) GetSession(ctx context.Context, caller string, sessionId uuid.UUID) (*dto.GetSessionResponse, error) {
	s.lastCaller = caller
	s.lastSessionId = sessionId
	return s.getRes, s.getErr
}

func (s *stubChatService) RenameSession(ctx context.Context, caller string, sessionId uuid.UUID, req *dto.RenameSessionRequest) (*dto.RenameSessionResponse, error) {
	s.lastCaller = caller
	s.lastSessionId = sessionId
	return s.renameRes, s.renameErr
}

func (s *stubChatService) DeleteSession(ctx context.Context, caller string, sessionId uuid.UUID) (*dto.DeleteSessionResponse, error) {
	s.lastCaller = caller
	s.lastSessionId = sessionId
	return s.deleteRes, s.deleteErr
}

var _ service.IChatService = (*stubChatService)(nil)

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

func newTestApp(svc service.IChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(testLogger{}))
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api, serverutils.JwtMiddleware(testJwtSecret))
	return app
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJwtSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	defer res.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestRoutesRejectMissingToken(t *testing.T) {
	app := newTestApp(&stubChatService{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{fiber.MethodPost, "/api/chat/v1/sessions"},
		{fiber.MethodGet, "/api/chat/v1/sessions"},
		{fiber.MethodGet, "/api/chat/v1/sessions/" + uuid.NewString()},
		{fiber.MethodPost, "/api/chat/v1/sessions/" + uuid.NewString()},
		{fiber.MethodPatch, "/api/chat/v1/sessions/" + uuid.NewString()},
		{fiber.MethodDelete, "/api/chat/v1/sessions/" + uuid.NewString()},
	} {
		res := doRequest(t, app, tc.method, tc.path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode, "%s %s", tc.method, tc.path)
		body := decodeBody(t, res)
		assert.Equal(t, "Not authenticated", body["error"])
	}
}

func TestRoutesRejectForgedToken(t *testing.T) {
	app := newTestApp(&stubChatService{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "mallory"})
	forged, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	res := doRequest(t, app, fiber.MethodGet, "/api/chat/v1/sessions", forged, nil)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestStartChatCreatesSession(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubChatService{
		sendRes: &dto.SendChatResponse{Message: "hello", SessionId: sessionId, SessionName: "Greetings"},
	}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodPost, "/api/chat/v1/sessions", signToken(t, "user-1"),
		dto.SendChatRequest{Prompt: "hi"})

	assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "hello", body["message"])
	assert.Equal(t, sessionId.String(), body["sessionId"])
	assert.Equal(t, "Greetings", body["sessionName"])

	assert.Equal(t, "user-1", svc.lastCaller)
	assert.Equal(t, uuid.Nil, svc.lastSessionId)
	assert.Equal(t, "hi", svc.lastPrompt)
}

func TestStartChatMissingPromptIsBadRequest(t *testing.T) {
	svc := &stubChatService{}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodPost, "/api/chat/v1/sessions", signToken(t, "user-1"),
		map[string]string{})

	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.NotEmpty(t, body["error"])
	assert.Empty(t, svc.lastCaller, "service must not be reached on invalid input")
}

func TestSendChatPassesSessionId(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubChatService{sendRes: &dto.SendChatResponse{Message: "sure", SessionId: sessionId}}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodPost, "/api/chat/v1/sessions/"+sessionId.String(),
		signToken(t, "user-1"), dto.SendChatRequest{Prompt: "continue"})

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, sessionId, svc.lastSessionId)

	body := decodeBody(t, res)
	assert.Equal(t, "sure", body["message"])
	_, hasName := body["sessionName"]
	assert.False(t, hasName, "sessionName is omitted for existing sessions")
}

func TestSendChatUnparseableIdMeansNewSession(t *testing.T) {
	svc := &stubChatService{sendRes: &dto.SendChatResponse{Message: "ok", SessionId: uuid.New()}}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodPost, "/api/chat/v1/sessions/new",
		signToken(t, "user-1"), dto.SendChatRequest{Prompt: "hi"})

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, uuid.Nil, svc.lastSessionId)
}

func TestGetAllSessionsReturnsList(t *testing.T) {
	svc := &stubChatService{
		listRes: &dto.ListSessionsResponse{Sessions: []*dto.SessionDTO{
			{Id: uuid.New(), Name: "First"},
			{Id: uuid.New(), Name: "Second"},
		}},
	}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodGet, "/api/chat/v1/sessions", signToken(t, "user-1"), nil)

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	sessions, ok := body["sessions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sessions, 2)
}

func TestGetSessionUnknownIdIsNotFound(t *testing.T) {
	svc := &stubChatService{getErr: serverutils.NewNotFoundError("Session not found")}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodGet, "/api/chat/v1/sessions/"+uuid.NewString(),
		signToken(t, "user-1"), nil)

	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Session not found", body["error"])
}

func TestGetSessionMalformedIdIsNotFound(t *testing.T) {
	app := newTestApp(&stubChatService{})

	res := doRequest(t, app, fiber.MethodGet, "/api/chat/v1/sessions/not-a-uuid",
		signToken(t, "user-1"), nil)

	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestRenameSessionOk(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubChatService{
		renameRes: &dto.RenameSessionResponse{
			Message: "Session renamed",
			Session: &dto.SessionDTO{Id: sessionId, Name: "Renamed"},
		},
	}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodPatch, "/api/chat/v1/sessions/"+sessionId.String(),
		signToken(t, "user-1"), dto.RenameSessionRequest{NewName: "Renamed"})

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, sessionId, svc.lastSessionId)
}

func TestRenameSessionMissingNameIsBadRequest(t *testing.T) {
	app := newTestApp(&stubChatService{})

	res := doRequest(t, app, fiber.MethodPatch, "/api/chat/v1/sessions/"+uuid.NewString(),
		signToken(t, "user-1"), map[string]string{})

	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestDeleteSessionOk(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubChatService{
		deleteRes: &dto.DeleteSessionResponse{Message: "Session deleted", SessionId: sessionId},
	}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodDelete, "/api/chat/v1/sessions/"+sessionId.String(),
		signToken(t, "user-1"), nil)

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Session deleted", body["message"])
	assert.Equal(t, sessionId.String(), body["sessionId"])
}

func TestGenerationFailureSurfacesAsInternalError(t *testing.T) {
	svc := &stubChatService{
		sendErr: serverutils.NewGenerationError(assert.AnError),
	}
	app := newTestApp(svc)

	res := doRequest(t, app, fiber.MethodPost, "/api/chat/v1/sessions", signToken(t, "user-1"),
		dto.SendChatRequest{Prompt: "hi"})

	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Chat failed", body["error"])
}
