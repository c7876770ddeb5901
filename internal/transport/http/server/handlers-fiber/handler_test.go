package handlers_fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"support-desk/internal/entities"
	api "support-desk/internal/oapi"
	"support-desk/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type ucMock struct{ mock.Mock }

var _ usecase.InterfaceUsecase = (*ucMock)(nil)

func (m *ucMock) Register(ctx context.Context, email, username, password string) (*entities.User, error) {
	args := m.Called(ctx, email, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *ucMock) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entities.User), args.String(1), args.Error(2)
}

func (m *ucMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *ucMock) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *ucMock) SweepSessions(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *ucMock) CreateProject(ctx context.Context, actor entities.User, name, description string) (*entities.Project, error) {
	args := m.Called(ctx, actor, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Project), args.Error(1)
}

func (m *ucMock) Project(ctx context.Context, actor entities.User, projectID string) (*entities.Project, error) {
	args := m.Called(ctx, actor, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Project), args.Error(1)
}

func (m *ucMock) ListProjects(ctx context.Context, actor entities.User) ([]entities.Project, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Project), args.Error(1)
}

func (m *ucMock) DeleteProject(ctx context.Context, actor entities.User, projectID string) error {
	return m.Called(ctx, actor, projectID).Error(0)
}

func (m *ucMock) CreateTicket(ctx context.Context, actor entities.User, ticket entities.Ticket) (*entities.Ticket, error) {
	args := m.Called(ctx, actor, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *ucMock) Ticket(ctx context.Context, actor entities.User, ticketID string) (*entities.Ticket, error) {
	args := m.Called(ctx, actor, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *ucMock) ListProjectTickets(ctx context.Context, actor entities.User, filter entities.TicketFilter) ([]entities.Ticket, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Ticket), args.Error(1)
}

func (m *ucMock) ChangeTicketStatus(ctx context.Context, actor entities.User, ticketID string, status entities.TicketStatus) (*entities.Ticket, error) {
	args := m.Called(ctx, actor, ticketID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *ucMock) AssignTicket(ctx context.Context, actor entities.User, ticketID string, assigneeID *string) (*entities.Ticket, error) {
	args := m.Called(ctx, actor, ticketID, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *ucMock) AddComment(ctx context.Context, actor entities.User, ticketID, body string) (*entities.Comment, error) {
	args := m.Called(ctx, actor, ticketID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Comment), args.Error(1)
}

func (m *ucMock) Comments(ctx context.Context, actor entities.User, ticketID string) ([]entities.Comment, error) {
	args := m.Called(ctx, actor, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Comment), args.Error(1)
}

func (m *ucMock) AddAttachment(ctx context.Context, actor entities.User, ticketID, fileName, mimeType string, r io.Reader) (*entities.Attachment, error) {
	raw, _ := io.ReadAll(r)
	args := m.Called(ctx, actor, ticketID, fileName, mimeType, string(raw))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Attachment), args.Error(1)
}

func (m *ucMock) Attachments(ctx context.Context, actor entities.User, ticketID string) ([]entities.Attachment, error) {
	args := m.Called(ctx, actor, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Attachment), args.Error(1)
}

func (m *ucMock) Attachment(ctx context.Context, actor entities.User, ticketID, attachmentID string) (*entities.Attachment, error) {
	args := m.Called(ctx, actor, ticketID, attachmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Attachment), args.Error(1)
}

func (m *ucMock) ListUsers(ctx context.Context, actor entities.User, limit, offset int) ([]entities.User, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.User), args.Error(1)
}

func (m *ucMock) SetUserActive(ctx context.Context, actor entities.User, userID string, isActive bool) (*entities.User, error) {
	args := m.Called(ctx, actor, userID, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *ucMock) SetUserRole(ctx context.Context, actor entities.User, userID string, role entities.Role) (*entities.User, error) {
	args := m.Called(ctx, actor, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *ucMock) AllTickets(ctx context.Context, actor entities.User, filter entities.TicketFilter) ([]entities.Ticket, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Ticket), args.Error(1)
}

func (m *ucMock) Stats(ctx context.Context, actor entities.User) (entities.AdminStats, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return entities.AdminStats{}, args.Error(1)
	}
	return args.Get(0).(entities.AdminStats), args.Error(1)
}

var (
	alice = entities.User{ID: "alice", Email: "alice@example.com", Role: entities.RoleUser, IsActive: true}
	root  = entities.User{ID: "root", Email: "root@example.com", Role: entities.RoleAdmin, IsActive: true}
)

func newTestApp(uc *ucMock) *fiber.App {
	app := fiber.New()
	NewHandler(zap.NewNop().Sugar(), uc, Options{CookieName: "sid", SessionTTL: time.Hour}).Register(app)
	return app
}

func signedIn(uc *ucMock, token string, user entities.User) {
	uc.On("Authenticate", mock.Anything, token).Return(&user, nil)
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func jsonRequest(method, target, token, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: token})
	}
	return req
}

func decodeError(t *testing.T, resp *http.Response) api.ErrorResponse {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestSessionGuard(t *testing.T) {
	uc := &ucMock{}
	uc.On("Authenticate", mock.Anything, "").Return(nil, entities.ErrUnauthorized)
	uc.On("Authenticate", mock.Anything, "stale").Return(nil, entities.ErrAccountInactive)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodGet, "/api/projects", "", ""))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, api.UNAUTHORIZED, decodeError(t, resp).Error.Code)

	resp = do(t, app, jsonRequest(http.MethodGet, "/api/auth/me", "stale", ""))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, api.ACCOUNTINACTIVE, decodeError(t, resp).Error.Code)

	uc.AssertNotCalled(t, "ListProjects", mock.Anything, mock.Anything)
}

func TestLoginSetsCookie(t *testing.T) {
	uc := &ucMock{}
	uc.On("Login", mock.Anything, "alice@example.com", "password1").Return(&alice, "raw-token", nil)
	uc.On("Login", mock.Anything, "alice@example.com", "nope").Return(nil, "", entities.ErrInvalidCredentials)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"password1"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := resp.Header.Get(fiber.HeaderSetCookie)
	require.Contains(t, cookie, "sid=raw-token")
	require.Contains(t, strings.ToLower(cookie), "httponly")

	var body struct {
		User api.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "alice", body.User.UserId)

	resp = do(t, app, jsonRequest(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"nope"}`))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, api.INVALIDCREDENTIALS, decodeError(t, resp).Error.Code)
}

func TestRegisterConflict(t *testing.T) {
	uc := &ucMock{}
	uc.On("Register", mock.Anything, "a@example.com", "a", "password1").Return(nil, entities.ErrUserExists)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/auth/register", "", `{"email":"a@example.com","username":"a","password":"password1"}`))
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, app, jsonRequest(http.MethodPost, "/api/auth/register", "", `{"email":`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectNotFound(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	uc.On("Project", mock.Anything, alice, "missing").Return(nil, entities.ErrProjectNotFound)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodGet, "/api/projects/missing", "tok", ""))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, api.NOTFOUND, decodeError(t, resp).Error.Code)
}

func TestCreateTicketDecodesMetadataString(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	uc.On("CreateTicket", mock.Anything, alice, mock.MatchedBy(func(tk entities.Ticket) bool {
		return tk.ProjectID == "p1" && tk.Title == "Broken" && tk.Metadata["os"] == "linux"
	})).Return(&entities.Ticket{
		ID: "t1", ProjectID: "p1", Title: "Broken", Description: "It *fails*",
		Status: entities.StatusOpen, Priority: entities.PriorityNormal,
	}, nil)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/projects/p1/tickets", "tok",
		`{"title":"Broken","description":"It *fails*","metadata":"{\"os\":\"linux\"}"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Ticket api.Ticket `json:"ticket"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "t1", body.Ticket.TicketId)
	require.Contains(t, body.Ticket.DescriptionHtml, "<em>fails</em>")
	require.Equal(t, "It fails", body.Ticket.Excerpt)
	uc.AssertExpectations(t)
}

func TestTicketStatusConflict(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	uc.On("ChangeTicketStatus", mock.Anything, alice, "t1", entities.StatusResolved).
		Return(nil, entities.ErrInvalidTransition)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/tickets/t1/status", "tok", `{"status":"resolved"}`))
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, api.INVALIDTRANSITION, decodeError(t, resp).Error.Code)
}

func TestTicketListQuery(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	open := entities.StatusOpen
	uc.On("ListProjectTickets", mock.Anything, alice, entities.TicketFilter{
		ProjectID: "p1", Status: &open, Limit: 5, Offset: 10,
	}).Return([]entities.Ticket{}, nil)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodGet, "/api/projects/p1/tickets?status=open&limit=5&offset=10", "tok", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	uc.AssertExpectations(t)
}

func TestBadQueryIsTagged(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	NewHandler(zap.New(core).Sugar(), uc, Options{CookieName: "sid", SessionTTL: time.Hour}).Register(app)

	resp := do(t, app, jsonRequest(http.MethodGet, "/api/projects/p1/tickets?limit=many", "tok", ""))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, api.INVALIDARGUMENT, decodeError(t, resp).Error.Code)

	tagged := logs.FilterField(zap.String("category", "transport")).All()
	require.Len(t, tagged, 1)
	require.Equal(t, zapcore.WarnLevel, tagged[0].Level)
	uc.AssertNotCalled(t, "ListProjectTickets", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttachmentUploadAndDownload(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	stored := &entities.Attachment{ID: "a1", TicketID: "t1", FileName: "log.txt", MimeType: "text/plain", Size: 5, Data: "aGVsbG8="}
	uploaded := *stored
	uc.On("AddAttachment", mock.Anything, alice, "t1", "log.txt", "text/plain", "hello").Return(&uploaded, nil)
	uc.On("Attachment", mock.Anything, alice, "t1", "a1").Return(stored, nil)
	app := newTestApp(uc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="log.txt"`},
		"Content-Type":        {"text/plain"},
	})
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tickets/t1/attachments", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok"})
	resp := do(t, app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Attachment api.Attachment `json:"attachment"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "a1", created.Attachment.AttachmentId)
	require.Empty(t, created.Attachment.DataUri)

	resp = do(t, app, jsonRequest(http.MethodGet, "/api/tickets/t1/attachments/a1", "tok", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/plain", resp.Header.Get(fiber.HeaderContentType))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(raw))

	resp = do(t, app, jsonRequest(http.MethodGet, "/api/tickets/t1/attachments/a1?format=json", "tok", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var asJSON struct {
		Attachment api.Attachment `json:"attachment"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&asJSON))
	require.Equal(t, "data:text/plain;base64,aGVsbG8=", asJSON.Attachment.DataUri)
}

func TestAttachmentDataURIUpload(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "tok", alice)
	uc.On("AddAttachment", mock.Anything, alice, "t1", "hi.txt", "text/plain", "hi").
		Return(&entities.Attachment{ID: "a2", FileName: "hi.txt", Data: "aGk="}, nil)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/tickets/t1/attachments", "tok",
		`{"file_name":"hi.txt","data_uri":"data:text/plain;base64,aGk="}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, app, jsonRequest(http.MethodPost, "/api/tickets/t1/attachments", "tok",
		`{"file_name":"hi.txt","data_uri":"not a uri"}`))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminGuard(t *testing.T) {
	uc := &ucMock{}
	signedIn(uc, "user", alice)
	signedIn(uc, "admin", root)
	uc.On("Stats", mock.Anything, root).Return(entities.AdminStats{
		Users: 2, ActiveUsers: 2, ByStatus: entities.StatusBreakdown(nil),
	}, nil)
	app := newTestApp(uc)

	resp := do(t, app, jsonRequest(http.MethodGet, "/api/admin/stats", "user", ""))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, api.FORBIDDEN, decodeError(t, resp).Error.Code)

	resp = do(t, app, jsonRequest(http.MethodGet, "/api/admin/stats", "admin", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Stats api.AdminStats `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, int64(2), body.Stats.Users)
	require.Len(t, body.Stats.ByStatus, 4)
	uc.AssertNumberOfCalls(t, "Stats", 1)
}

func TestPageRedirects(t *testing.T) {
	uc := &ucMock{}
	uc.On("Authenticate", mock.Anything, "").Return(nil, entities.ErrUnauthorized)
	signedIn(uc, "user", alice)
	uc.On("Logout", mock.Anything, "user").Return(nil)
	app := newTestApp(uc)

	tests := []struct {
		name     string
		path     string
		token    string
		location string
	}{
		{"index anonymous", "/", "", "/login"},
		{"index signed in", "/", "user", "/dashboard"},
		{"login signed in", "/login", "user", "/dashboard"},
		{"dashboard anonymous", "/dashboard", "", "/login"},
		{"ticket page anonymous", "/tickets/t1", "", "/login"},
		{"admin as user", "/admin/users", "user", "/dashboard"},
		{"logout", "/logout", "user", "/login"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, jsonRequest(http.MethodGet, tt.path, tt.token, ""))
			require.Equal(t, http.StatusFound, resp.StatusCode)
			require.Equal(t, tt.location, resp.Header.Get(fiber.HeaderLocation))
		})
	}

	resp := do(t, app, jsonRequest(http.MethodGet, "/dashboard", "user", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, "/dashboard", page["page"])
	require.Equal(t, "alice", page["user_id"])
}
