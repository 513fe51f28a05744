package notification

import "time"

type Notification struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     int64      `gorm:"column:user_id;not null;index"`
	Kind       string     `gorm:"column:kind;not null"`
	Title      string     `gorm:"column:title;not null"`
	Body       string     `gorm:"column:body"`
	EntityType string     `gorm:"column:entity_type"`
	EntityID   int64      `gorm:"column:entity_id"`
	ReadAt     *time.Time `gorm:"column:read_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:now()"`
}

func (Notification) TableName() string {
	return "notifications"
}

type AuditLog struct {
	ID         int64     `gorm:"primaryKey"`
	EntityType string    `gorm:"column:entity_type;not null;index:idx_audit_entity"`
	EntityID   int64     `gorm:"column:entity_id;not null;index:idx_audit_entity"`
	ActorID    int64     `gorm:"column:actor_id;not null"`
	Action     string    `gorm:"column:action;not null"`
	FromStatus string    `gorm:"column:from_status"`
	ToStatus   string    `gorm:"column:to_status"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
