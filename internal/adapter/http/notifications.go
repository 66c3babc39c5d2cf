package http

import (
	"context"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/busops/internal/app"
	"github.com/neomorfeo/busops/internal/domain"
)

// NotificationResponse is the API representation of an inbox entry.
type NotificationResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at" doc:"Creation timestamp (RFC 3339)"`
	Type      string `json:"type"`
	IsRead    bool   `json:"is_read"`
	TenantID  string `json:"tenant_id,omitempty"`
	Redirect  string `json:"redirect,omitempty" doc:"UI navigation hint"`
}

func toNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: formatTime(n.CreatedAt),
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		TenantID:  n.TenantID,
		Redirect:  n.Redirect,
	}
}

type ListNotificationsInput struct {
	Unread   bool   `query:"unread" required:"false" doc:"Only unread notifications"`
	TenantID string `query:"tenant_id" required:"false" doc:"Only notifications about this tenant"`
}

type ListNotificationsOutput struct {
	Body struct {
		Items       []NotificationResponse `json:"items" doc:"Newest first"`
		UnreadCount int                    `json:"unread_count"`
	}
}

type MarkReadInput struct {
	ID string `path:"id" doc:"Notification ID"`
}

type MarkAllReadOutput struct {
	Body struct {
		Marked int `json:"marked" doc:"Number of notifications flagged as read"`
	}
}

func registerNotifications(api huma.API, svc *app.NotificationCenter) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications, newest first",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
		var items []domain.Notification
		switch {
		case input.TenantID != "":
			items = svc.ForTenant(input.TenantID)
			if input.Unread {
				items = slices.DeleteFunc(items, func(n domain.Notification) bool { return n.IsRead })
			}
		case input.Unread:
			items = svc.Unread()
		default:
			items = svc.All()
		}

		out := &ListNotificationsOutput{}
		out.Body.Items = make([]NotificationResponse, len(items))
		for i, n := range items {
			out.Body.Items[i] = toNotificationResponse(n)
		}
		out.Body.UnreadCount = svc.UnreadCount()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-notification-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark a notification as read",
		Description: "Unknown ids are accepted and ignored.",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *MarkReadInput) (*struct{}, error) {
		if err := svc.MarkRead(ctx, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-all-notifications-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/read-all",
		Summary:     "Mark every notification as read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*MarkAllReadOutput, error) {
		marked, err := svc.MarkAllRead(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &MarkAllReadOutput{}
		out.Body.Marked = marked
		return out, nil
	})
}
