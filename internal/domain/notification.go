package domain

import (
	"fmt"
	"time"
)

// NotificationType classifies what produced a notification.
type NotificationType string

const (
	NotifyTenantRegistration NotificationType = "tenant_registration"
	NotifyTenantApproved     NotificationType = "tenant_approved"
	NotifyTenantRejected     NotificationType = "tenant_rejected"
	NotifyGeneral            NotificationType = "general"
)

// Notification is an inbox entry for console administrators.
// Only IsRead may change after creation, and only from false to true.
type Notification struct {
	ID        string
	Title     string
	Message   string
	CreatedAt time.Time
	Type      NotificationType
	IsRead    bool
	TenantID  string // optional, lookup only
	Redirect  string // optional UI hint, passed through unvalidated
}

// TenantNotification builds the notification emitted for a tenant event.
// Registration, approval and rejection have a notification; other events do not.
func TenantNotification(kind NotificationType, t Tenant) Notification {
	n := Notification{
		Type:     kind,
		TenantID: t.ID,
	}
	switch kind {
	case NotifyTenantRegistration:
		n.Title = "New company registration"
		n.Message = fmt.Sprintf("%s (tax id %s) has applied to join the platform.", t.BrandName, t.TaxID)
		n.Redirect = "/tenants/pending"
	case NotifyTenantApproved:
		n.Title = "Company approved"
		n.Message = fmt.Sprintf("%s has been approved and can now operate routes.", t.BrandName)
		n.Redirect = "/tenants/" + t.ID
	case NotifyTenantRejected:
		n.Title = "Company rejected"
		n.Message = fmt.Sprintf("The application from %s has been rejected.", t.BrandName)
	default:
		n.Title = t.BrandName
	}
	return n
}
