package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	candidateDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/candidate"
	interviewDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/interview"
	jobRequestDatamodel "github.com/talentgrid/hiring-management/internal/core/datamodel/jobrequest"
	"github.com/talentgrid/hiring-management/internal/interview"
)

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) interview.Repository {
	return &InterviewRepository{db: db}
}

// ScheduleCascade commits the interview, its participants, the candidate
// status and the job request status as one unit.
func (r *InterviewRepository) ScheduleCascade(ctx context.Context, row *interviewDatamodel.Interview, participants []*interviewDatamodel.Participant, markJobRequest bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		for _, p := range participants {
			p.InterviewID = row.ID
		}
		if len(participants) > 0 {
			if err := tx.Create(participants).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&candidateDatamodel.Candidate{}).
			Where("id = ?", row.CandidateID).
			Updates(map[string]interface{}{
				"status":     "interview_scheduled",
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		if markJobRequest {
			if err := tx.Model(&jobRequestDatamodel.JobRequest{}).
				Where("id = ?", row.JobRequestID).
				Updates(map[string]interface{}{
					"status":     "interviews_scheduled",
					"updated_at": time.Now(),
				}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *InterviewRepository) GetByID(ctx context.Context, id int64) (*interviewDatamodel.Interview, error) {
	var row interviewDatamodel.Interview
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *InterviewRepository) Update(ctx context.Context, row *interviewDatamodel.Interview) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *InterviewRepository) List(ctx context.Context, filter interview.Filter, limit, offset int) ([]*interviewDatamodel.Interview, error) {
	query := r.db.WithContext(ctx).Model(&interviewDatamodel.Interview{})

	if filter.OrganizationID != nil || filter.AssignedHRUserID != nil {
		query = query.Joins("JOIN job_requests ON job_requests.id = interviews.job_request_id")
		if filter.OrganizationID != nil {
			query = query.Where("job_requests.organization_id = ?", *filter.OrganizationID)
		}
		if filter.AssignedHRUserID != nil {
			query = query.Where("job_requests.assigned_to_hr_user_id = ?", *filter.AssignedHRUserID)
		}
	}
	if filter.ParticipantUserID != nil {
		query = query.
			Joins("JOIN interview_participants ON interview_participants.interview_id = interviews.id").
			Where("interview_participants.user_id = ?", *filter.ParticipantUserID)
	}
	if filter.JobRequestID != nil {
		query = query.Where("interviews.job_request_id = ?", *filter.JobRequestID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("interviews.status IN ?", filter.Statuses)
	}
	if filter.From != nil {
		query = query.Where("interviews.scheduled_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("interviews.scheduled_at <= ?", *filter.To)
	}

	var rows []*interviewDatamodel.Interview
	err := query.
		Order("interviews.scheduled_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *InterviewRepository) ListParticipants(ctx context.Context, interviewID int64) ([]*interviewDatamodel.Participant, error) {
	var rows []*interviewDatamodel.Participant
	err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *InterviewRepository) AddParticipant(ctx context.Context, row *interviewDatamodel.Participant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *InterviewRepository) RemoveParticipant(ctx context.Context, interviewID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("interview_id = ? AND user_id = ?", interviewID, userID).
		Delete(&interviewDatamodel.Participant{}).Error
}
