package interview

import "time"

const (
	ParticipantRoleOrganizer = "organizer"
	ParticipantRoleAttendee  = "attendee"
)

type Interview struct {
	ID              int64     `gorm:"primaryKey"`
	JobRequestID    int64     `gorm:"column:job_request_id;not null;index"`
	CandidateID     int64     `gorm:"column:candidate_id;not null;index"`
	ScheduledAt     time.Time `gorm:"column:scheduled_at;not null;index"`
	DurationMinutes int       `gorm:"column:duration_minutes;default:60"`
	MeetingLink     string    `gorm:"column:meeting_link"`
	MeetingPlatform string    `gorm:"column:meeting_platform"`
	Notes           string    `gorm:"column:notes"`
	Status          string    `gorm:"column:status;default:scheduled;index"`
	CreatedByID     int64     `gorm:"column:created_by_id;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `gorm:"column:updated_at;default:now()"`
}

func (Interview) TableName() string {
	return "interviews"
}

type Participant struct {
	ID          int64     `gorm:"primaryKey"`
	InterviewID int64     `gorm:"column:interview_id;not null;uniqueIndex:idx_participants_interview_user"`
	UserID      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_participants_interview_user"`
	Role        string    `gorm:"column:role;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Participant) TableName() string {
	return "interview_participants"
}
