package models

import "time"

type ActivityType string

const (
	ActivityQuiz       ActivityType = "quiz"
	ActivityPoll       ActivityType = "poll"
	ActivityDiscussion ActivityType = "discussion"
)

type QuizQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Points       int      `json:"points"`
}

type QuizConfig struct {
	Questions   []QuizQuestion `json:"questions"`
	ShowResults bool           `json:"show_results"`
}

type PollConfig struct {
	Options     []string `json:"options"`
	MultiSelect bool     `json:"multi_select"`
	Anonymous   bool     `json:"anonymous"`
}

type DiscussionConfig struct {
	MaxLength        int  `json:"max_length"`
	Anonymous        bool `json:"anonymous"`
	RequiresApproval bool `json:"requires_approval"`
}

// Activity is a tagged union over the three variants: Type is the
// discriminator and exactly one of Quiz/Poll/Discussion is non-nil.
// HasBeenActivated is sticky; once set it never resets.
type Activity struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	CourseID         uint              `gorm:"not null;index" json:"course_id"`
	Course           Course            `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Type             ActivityType      `gorm:"size:20;not null" json:"type"`
	Title            string            `gorm:"size:255;not null" json:"title"`
	Description      string            `gorm:"type:text" json:"description"`
	IsActive         bool              `gorm:"not null;default:false;index" json:"is_active"`
	HasBeenActivated bool              `gorm:"not null;default:false" json:"has_been_activated"`
	Quiz             *QuizConfig       `gorm:"serializer:json" json:"quiz,omitempty"`
	Poll             *PollConfig       `gorm:"serializer:json" json:"poll,omitempty"`
	Discussion       *DiscussionConfig `gorm:"serializer:json" json:"discussion,omitempty"`
	ExpiresAt        *time.Time        `json:"expires_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}
