package models

import "time"

// Student is owned by the instructor who created (or auto-enrolled) it;
// the external StudentID is only unique within that owner's roster.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InstructorID uint      `gorm:"not null;uniqueIndex:idx_student_owner" json:"instructor_id"`
	StudentID    string    `gorm:"size:50;not null;uniqueIndex:idx_student_owner" json:"student_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	PIN          string    `gorm:"size:20" json:"-"`
	Courses      []Course  `gorm:"many2many:course_students;" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
