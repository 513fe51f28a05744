package notification

import (
	"time"

	notificationDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/notification"
)

type Notification struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Kind       string     `json:"kind"`
	Title      string     `json:"title"`
	Body       string     `json:"body,omitempty"`
	EntityType string     `json:"entity_type,omitempty"`
	EntityID   int64      `json:"entity_id,omitempty"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:         n.ID,
		UserID:     n.UserID,
		Kind:       n.Kind,
		Title:      n.Title,
		Body:       n.Body,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
