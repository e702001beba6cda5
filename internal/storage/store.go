// Package storage defines the persistence interfaces the services consume
// and their GORM-backed implementations. Services only see the interfaces,
// so tests swap in in-memory fakes.
package storage

import (
	"errors"

	"classroom-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

type InstructorStore interface {
	Create(ins *models.Instructor) error
	GetByID(id uint) (*models.Instructor, error)
	GetByUsername(username string) (*models.Instructor, error)
}

type CourseStore interface {
	Create(course *models.Course) error
	Update(course *models.Course) error
	Delete(id, instructorID uint) error
	GetByID(id uint) (*models.Course, error)
	GetOwned(id, instructorID uint) (*models.Course, error)
	GetByJoinCode(joinCode string) (*models.Course, error)
	ListByInstructor(instructorID uint) ([]models.Course, error)
	JoinCodeTaken(instructorID uint, joinCode string) (bool, error)
	Enroll(courseID, studentID uint) error
}

type StudentStore interface {
	Create(st *models.Student) error
	Update(st *models.Student) error
	Delete(id, instructorID uint) error
	GetByID(id uint) (*models.Student, error)
	GetByStudentID(instructorID uint, studentID string) (*models.Student, error)
	ListByCourse(courseID uint) ([]models.Student, error)
}

type ActivityStore interface {
	Create(a *models.Activity) error
	Update(a *models.Activity) error
	// UpdateAll persists the batch in a single transaction; either every
	// activity is written or none is.
	UpdateAll(batch []*models.Activity) error
	Delete(id uint) error
	GetByID(id uint) (*models.Activity, error)
	GetActiveByCourse(courseID uint) (*models.Activity, error)
	ListByCourse(courseID uint) ([]models.Activity, error)
	ListActiveByCourse(courseID uint) ([]models.Activity, error)
}

type SubmissionStore interface {
	Create(sub *models.Submission) error
	Exists(activityID, studentID uint) (bool, error)
	ListByActivity(activityID uint) ([]models.Submission, error)
}
