package ticket

import "time"

type Ticket struct {
	ID               int64      `gorm:"primaryKey"`
	CreatedByID      int64      `gorm:"column:created_by_id;not null;index"`
	AssignedToUserID *int64     `gorm:"column:assigned_to_user_id;index"`
	OrganizationID   int64      `gorm:"column:organization_id;not null;index"`
	Subject          string     `gorm:"column:subject;not null"`
	Description      string     `gorm:"column:description"`
	Category         string     `gorm:"column:category"`
	Priority         string     `gorm:"column:priority;default:medium"`
	Status           string     `gorm:"column:status;default:open;index"`
	ResolvedAt       *time.Time `gorm:"column:resolved_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type Message struct {
	ID        int64     `gorm:"primaryKey"`
	TicketID  int64     `gorm:"column:ticket_id;not null;index"`
	SenderID  int64     `gorm:"column:sender_id;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Message) TableName() string {
	return "ticket_messages"
}
