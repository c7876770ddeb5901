// Package oapi holds the HTTP API contract: request and response bodies,
// error codes and the route table bound to a ServerInterface.
package oapi

import (
	"encoding/json"
	"time"
)

// Defines values for ErrorResponseErrorCode.
const (
	INVALIDARGUMENT    ErrorResponseErrorCode = "INVALID_ARGUMENT"
	UNAUTHORIZED       ErrorResponseErrorCode = "UNAUTHORIZED"
	INVALIDCREDENTIALS ErrorResponseErrorCode = "INVALID_CREDENTIALS"
	FORBIDDEN          ErrorResponseErrorCode = "FORBIDDEN"
	ACCOUNTINACTIVE    ErrorResponseErrorCode = "ACCOUNT_INACTIVE"
	NOTFOUND           ErrorResponseErrorCode = "NOT_FOUND"
	USEREXISTS         ErrorResponseErrorCode = "USER_EXISTS"
	INVALIDTRANSITION  ErrorResponseErrorCode = "INVALID_TRANSITION"
	PAYLOADTOOLARGE    ErrorResponseErrorCode = "PAYLOAD_TOO_LARGE"
	INTERNAL           ErrorResponseErrorCode = "INTERNAL"
)

// ErrorResponseErrorCode defines model for ErrorResponse.Error.Code.
type ErrorResponseErrorCode string

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// User defines model for User.
type User struct {
	UserId      string     `json:"user_id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	MemberSince string     `json:"member_since"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastSeen    string     `json:"last_seen,omitempty"`
}

// Project defines model for Project.
type Project struct {
	ProjectId   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerId     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedOn   string    `json:"created_on"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Ticket defines model for Ticket.
type Ticket struct {
	TicketId        string         `json:"ticket_id"`
	ProjectId       string         `json:"project_id"`
	AuthorId        string         `json:"author_id"`
	AssigneeId      *string        `json:"assignee_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DescriptionHtml string         `json:"description_html"`
	Excerpt         string         `json:"excerpt"`
	Status          string         `json:"status"`
	Priority        string         `json:"priority"`
	Metadata        map[string]any `json:"metadata"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	UpdatedLabel    string         `json:"updated_label"`
	ClosedAt        *time.Time     `json:"closed_at"`
}

// Comment defines model for Comment.
type Comment struct {
	CommentId string    `json:"comment_id"`
	TicketId  string    `json:"ticket_id"`
	AuthorId  string    `json:"author_id"`
	Body      string    `json:"body"`
	BodyHtml  string    `json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
	Posted    string    `json:"posted"`
}

// Attachment defines model for Attachment.
type Attachment struct {
	AttachmentId string    `json:"attachment_id"`
	TicketId     string    `json:"ticket_id"`
	UploaderId   string    `json:"uploader_id"`
	FileName     string    `json:"file_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	SizeLabel    string    `json:"size_label"`
	CreatedAt    time.Time `json:"created_at"`
	DataUri      string    `json:"data_uri,omitempty"`
}

// StatusStat defines model for StatusStat.
type StatusStat struct {
	Status      string `json:"status"`
	TicketCount int64  `json:"ticket_count"`
}

// AdminStats defines model for AdminStats.
type AdminStats struct {
	Users       int64        `json:"users"`
	ActiveUsers int64        `json:"active_users"`
	Projects    int64        `json:"projects"`
	ByStatus    []StatusStat `json:"by_status"`
}

// PostAuthRegisterJSONRequestBody defines body for PostAuthRegister.
type PostAuthRegisterJSONRequestBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// PostAuthLoginJSONRequestBody defines body for PostAuthLogin.
type PostAuthLoginJSONRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PostProjectsJSONRequestBody defines body for PostProjects.
type PostProjectsJSONRequestBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PostProjectTicketsJSONRequestBody defines body for PostProjectTickets.
// Metadata is accepted either as an object or as a JSON-encoded string.
type PostProjectTicketsJSONRequestBody struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	Metadata    json.RawMessage `json:"metadata"`
}

// PostTicketStatusJSONRequestBody defines body for PostTicketStatus.
type PostTicketStatusJSONRequestBody struct {
	Status string `json:"status"`
}

// PostTicketAssignJSONRequestBody defines body for PostTicketAssign.
type PostTicketAssignJSONRequestBody struct {
	AssigneeId *string `json:"assignee_id"`
}

// PostTicketCommentsJSONRequestBody defines body for PostTicketComments.
type PostTicketCommentsJSONRequestBody struct {
	Body string `json:"body"`
}

// PostTicketAttachmentsJSONRequestBody defines the JSON variant of an
// upload. Multipart uploads use the "file" form field instead.
type PostTicketAttachmentsJSONRequestBody struct {
	FileName string `json:"file_name"`
	DataUri  string `json:"data_uri"`
}

// PostAdminUserActiveJSONRequestBody defines body for PostAdminUserActive.
type PostAdminUserActiveJSONRequestBody struct {
	IsActive bool `json:"is_active"`
}

// PostAdminUserRoleJSONRequestBody defines body for PostAdminUserRole.
type PostAdminUserRoleJSONRequestBody struct {
	Role string `json:"role"`
}

// ListTicketsParams defines query parameters for ticket listings.
type ListTicketsParams struct {
	Status *string `query:"status"`
	Author *string `query:"author"`
	Limit  *int    `query:"limit"`
	Offset *int    `query:"offset"`
}

// GetAdminUsersParams defines query parameters for GetAdminUsers.
type GetAdminUsersParams struct {
	Limit  *int `query:"limit"`
	Offset *int `query:"offset"`
}

// GetTicketAttachmentParams defines query parameters for GetTicketAttachment.
type GetTicketAttachmentParams struct {
	Format *string `query:"format"`
}
