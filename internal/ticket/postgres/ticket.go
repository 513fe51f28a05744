package postgres

import (
	"context"

	"gorm.io/gorm"

	ticketDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/ticket"
	"github.com/talentgrid/hiring-management/internal/ticket"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) ticket.Repository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, row *ticketDatamodel.Ticket) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*ticketDatamodel.Ticket, error) {
	var row ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *TicketRepository) Update(ctx context.Context, row *ticketDatamodel.Ticket) error {
	// Save skips nil pointer columns, so clearing the assignee needs an
	// explicit update map
	return r.db.WithContext(ctx).Model(&ticketDatamodel.Ticket{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"assigned_to_user_id": row.AssignedToUserID,
			"status":              row.Status,
			"resolved_at":         row.ResolvedAt,
			"updated_at":          row.UpdatedAt,
		}).Error
}

func (r *TicketRepository) ListByCreator(ctx context.Context, creatorID int64, limit, offset int) ([]*ticketDatamodel.Ticket, error) {
	var rows []*ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).
		Where("created_by_id = ?", creatorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *TicketRepository) ListByAssignee(ctx context.Context, assigneeID int64, limit, offset int) ([]*ticketDatamodel.Ticket, error) {
	var rows []*ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).
		Where("assigned_to_user_id = ?", assigneeID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *TicketRepository) ListAll(ctx context.Context, limit, offset int) ([]*ticketDatamodel.Ticket, error) {
	var rows []*ticketDatamodel.Ticket
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *TicketRepository) CreateMessage(ctx context.Context, row *ticketDatamodel.Message) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *TicketRepository) ListMessages(ctx context.Context, ticketID int64) ([]*ticketDatamodel.Message, error) {
	var rows []*ticketDatamodel.Message
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
