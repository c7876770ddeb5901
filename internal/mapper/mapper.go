// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"time"

	"support-desk/internal/entities"
	"support-desk/internal/oapi"
	"support-desk/pkg/fileenc"
	"support-desk/pkg/format"
)

// ExcerptLength is the rune budget of ticket excerpts.
const ExcerptLength = 160

// ToOAPIUser maps entities.User to transport model. The password hash
// never leaves this layer.
func ToOAPIUser(u entities.User, now time.Time) oapi.User {
	res := oapi.User{
		UserId:      u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		MemberSince: format.Date(u.CreatedAt),
		LastLoginAt: u.LastLoginAt,
	}
	if u.LastLoginAt != nil {
		res.LastSeen = format.Relative(*u.LastLoginAt, now)
	}
	return res
}

// ToOAPIUserList maps a slice of users.
func ToOAPIUserList(list []entities.User, now time.Time) []oapi.User {
	res := make([]oapi.User, 0, len(list))
	for _, u := range list {
		res = append(res, ToOAPIUser(u, now))
	}
	return res
}

// ToOAPIProject maps entities.Project to transport model.
func ToOAPIProject(p entities.Project) oapi.Project {
	return oapi.Project{
		ProjectId:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerId:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		CreatedOn:   format.Date(p.CreatedAt),
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToOAPIProjectList maps a slice of projects.
func ToOAPIProjectList(list []entities.Project) []oapi.Project {
	res := make([]oapi.Project, 0, len(list))
	for _, p := range list {
		res = append(res, ToOAPIProject(p))
	}
	return res
}

// ToOAPITicket maps entities.Ticket to transport model, rendering the
// markdown description and a plain-text excerpt of it.
func ToOAPITicket(t entities.Ticket) (oapi.Ticket, error) {
	rendered, err := format.Markdown(t.Description)
	if err != nil {
		return oapi.Ticket{}, err
	}
	metadata := t.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return oapi.Ticket{
		TicketId:        t.ID,
		ProjectId:       t.ProjectID,
		AuthorId:        t.AuthorID,
		AssigneeId:      t.AssigneeID,
		Title:           t.Title,
		Description:     t.Description,
		DescriptionHtml: rendered,
		Excerpt:         format.Excerpt(rendered, ExcerptLength),
		Status:          string(t.Status),
		Priority:        string(t.Priority),
		Metadata:        metadata,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		UpdatedLabel:    format.DateTime(t.UpdatedAt),
		ClosedAt:        t.ClosedAt,
	}, nil
}

// ToOAPITicketList maps a slice of tickets.
func ToOAPITicketList(list []entities.Ticket) ([]oapi.Ticket, error) {
	res := make([]oapi.Ticket, 0, len(list))
	for _, t := range list {
		dto, err := ToOAPITicket(t)
		if err != nil {
			return nil, err
		}
		res = append(res, dto)
	}
	return res, nil
}

// ToOAPIComment maps entities.Comment to transport model.
func ToOAPIComment(cm entities.Comment, now time.Time) (oapi.Comment, error) {
	rendered, err := format.Markdown(cm.Body)
	if err != nil {
		return oapi.Comment{}, err
	}
	return oapi.Comment{
		CommentId: cm.ID,
		TicketId:  cm.TicketID,
		AuthorId:  cm.AuthorID,
		Body:      cm.Body,
		BodyHtml:  rendered,
		CreatedAt: cm.CreatedAt,
		Posted:    format.Relative(cm.CreatedAt, now),
	}, nil
}

// ToOAPICommentList maps a slice of comments.
func ToOAPICommentList(list []entities.Comment, now time.Time) ([]oapi.Comment, error) {
	res := make([]oapi.Comment, 0, len(list))
	for _, cm := range list {
		dto, err := ToOAPIComment(cm, now)
		if err != nil {
			return nil, err
		}
		res = append(res, dto)
	}
	return res, nil
}

// ToOAPIAttachment maps attachment metadata. The data URI is filled only
// when the record carries its data.
func ToOAPIAttachment(a entities.Attachment) oapi.Attachment {
	res := oapi.Attachment{
		AttachmentId: a.ID,
		TicketId:     a.TicketID,
		UploaderId:   a.UploaderID,
		FileName:     a.FileName,
		MimeType:     a.MimeType,
		Size:         a.Size,
		SizeLabel:    format.Bytes(a.Size),
		CreatedAt:    a.CreatedAt,
	}
	if a.Data != "" {
		res.DataUri = fileenc.DataURI(a.MimeType, a.Data)
	}
	return res
}

// ToOAPIAttachmentList maps a slice of attachments.
func ToOAPIAttachmentList(list []entities.Attachment) []oapi.Attachment {
	res := make([]oapi.Attachment, 0, len(list))
	for _, a := range list {
		res = append(res, ToOAPIAttachment(a))
	}
	return res
}

// ToOAPIStats maps the admin overview to transport model.
func ToOAPIStats(src entities.AdminStats) oapi.AdminStats {
	byStatus := make([]oapi.StatusStat, 0, len(src.ByStatus))
	for _, s := range src.ByStatus {
		byStatus = append(byStatus, oapi.StatusStat{Status: string(s.Status), TicketCount: s.TicketCount})
	}
	return oapi.AdminStats{
		Users:       src.Users,
		ActiveUsers: src.ActiveUsers,
		Projects:    src.Projects,
		ByStatus:    byStatus,
	}
}
