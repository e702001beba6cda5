package models

import "time"

// VerificationMode is a bitmask over the fields a joining student must
// present and match. A course carries a set of modes; a join succeeds if it
// fully satisfies any one of them. The zero value is the sentinel for
// "no verification, auto-enroll".
type VerificationMode int

const (
	VerifyDisabled  VerificationMode = 0
	VerifyStudentID VerificationMode = 1
	VerifyName      VerificationMode = 2
	VerifyEmail     VerificationMode = 4
	VerifyPIN       VerificationMode = 8
)

func (m VerificationMode) Requires(field VerificationMode) bool {
	return m&field != 0
}

type Course struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	InstructorID      uint               `gorm:"not null;uniqueIndex:idx_course_identity;uniqueIndex:idx_course_join" json:"instructor_id"`
	Instructor        Instructor         `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"-"`
	Name              string             `gorm:"size:255;not null" json:"name"`
	Code              string             `gorm:"size:20;not null;uniqueIndex:idx_course_identity" json:"code"`
	AcademicYear      string             `gorm:"size:9;not null;uniqueIndex:idx_course_identity" json:"academic_year"`
	Semester          int                `gorm:"not null;uniqueIndex:idx_course_identity" json:"semester"`
	JoinCode          string             `gorm:"size:6;not null;uniqueIndex:idx_course_join" json:"join_code"`
	VerificationModes []VerificationMode `gorm:"serializer:json" json:"verification_modes"`
	Students          []Student          `gorm:"many2many:course_students;" json:"students,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// VerificationDisabled reports whether joins bypass verification entirely.
// An empty mode set counts as disabled.
func (c *Course) VerificationDisabled() bool {
	for _, m := range c.VerificationModes {
		if m != VerifyDisabled {
			return false
		}
	}
	return true
}

// RequiredJoinFields is the union of fields any mode may ask for, so the
// pre-join form knows what to render.
func (c *Course) RequiredJoinFields() VerificationMode {
	var fields VerificationMode
	for _, m := range c.VerificationModes {
		fields |= m
	}
	return fields
}
