package models

import "time"

type QuizAnswers struct {
	Answers []int   `json:"answers"`
	Score   float64 `json:"score"`
}

type PollChoice struct {
	Selected []int `json:"selected"`
}

type DiscussionPost struct {
	Text     string `json:"text"`
	Approved bool   `json:"approved"`
}

// Submission mirrors the Activity tagged-union layout. The composite
// unique index backs the one-submission-per-student rule even when two
// submits race past the existence check.
type Submission struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ActivityID uint            `gorm:"not null;uniqueIndex:idx_submission_unique" json:"activity_id"`
	Activity   Activity        `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE" json:"-"`
	StudentID  uint            `gorm:"not null;uniqueIndex:idx_submission_unique" json:"student_id"`
	CourseID   uint            `gorm:"not null;index" json:"course_id"`
	Type       ActivityType    `gorm:"size:20;not null" json:"type"`
	Quiz       *QuizAnswers    `gorm:"serializer:json" json:"quiz,omitempty"`
	Poll       *PollChoice     `gorm:"serializer:json" json:"poll,omitempty"`
	Discussion *DiscussionPost `gorm:"serializer:json" json:"discussion,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
