package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"classroom-backend/internal/models"
	"classroom-backend/internal/storage"
	"classroom-backend/internal/token"
)

// ErrJoinUnauthorized deliberately carries no field-level detail; the
// response must not reveal which credential mismatched.
var ErrJoinUnauthorized = errors.New("unauthorized")

type JoinRequest struct {
	StudentID string
	Name      string
	Email     string
	PIN       string
}

type JoinedStudent struct {
	CourseID  uint
	DBID      uint
	StudentID string
	Name      string
	Token     string
}

type AdmissionService struct {
	students storage.StudentStore
	courses  storage.CourseStore
	codec    *token.Codec
	log      *zap.Logger
}

func NewAdmissionService(students storage.StudentStore, courses storage.CourseStore, codec *token.Codec, log *zap.Logger) *AdmissionService {
	return &AdmissionService{students: students, courses: courses, codec: codec, log: log}
}

// Admit checks the join request against the course's verification policy
// and returns a freshly issued token. Re-joining with valid credentials is
// idempotent: no duplicate student, no duplicate enrollment, new token.
func (s *AdmissionService) Admit(course *models.Course, req JoinRequest) (*JoinedStudent, error) {
	st, err := s.students.GetByStudentID(course.InstructorID, req.StudentID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if !course.VerificationDisabled() {
			return nil, ErrJoinUnauthorized
		}
		if st, err = s.autoEnroll(course, req); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if !course.VerificationDisabled() && !matchesPolicy(course.VerificationModes, st, req) {
			return nil, ErrJoinUnauthorized
		}
		if err := s.courses.Enroll(course.ID, st.ID); err != nil {
			return nil, err
		}
	}

	tok := s.codec.Issue(course.ID, st.ID, st.StudentID)
	return &JoinedStudent{
		CourseID:  course.ID,
		DBID:      st.ID,
		StudentID: st.StudentID,
		Name:      st.Name,
		Token:     tok,
	}, nil
}

func (s *AdmissionService) autoEnroll(course *models.Course, req JoinRequest) (*models.Student, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Guest-" + uuid.NewString()[:8]
	}
	st := &models.Student{
		InstructorID: course.InstructorID,
		StudentID:    req.StudentID,
		Name:         name,
		Email:        req.Email,
		PIN:          req.PIN,
	}
	if err := s.students.Create(st); err != nil {
		return nil, err
	}
	if err := s.courses.Enroll(course.ID, st.ID); err != nil {
		return nil, err
	}
	s.log.Info("student auto-enrolled",
		zap.Uint("course_id", course.ID),
		zap.String("student_id", st.StudentID))
	return st, nil
}

// matchesPolicy reports whether the request fully satisfies at least one
// verification mode. A mode only matches when every field it requires is
// present and equal: name and email case-insensitively, student id and PIN
// exactly.
func matchesPolicy(modes []models.VerificationMode, st *models.Student, req JoinRequest) bool {
	for _, mode := range modes {
		if mode == models.VerifyDisabled {
			continue
		}
		if matchesMode(mode, st, req) {
			return true
		}
	}
	return false
}

func matchesMode(mode models.VerificationMode, st *models.Student, req JoinRequest) bool {
	if mode.Requires(models.VerifyStudentID) && req.StudentID != st.StudentID {
		return false
	}
	if mode.Requires(models.VerifyName) && (req.Name == "" || !strings.EqualFold(req.Name, st.Name)) {
		return false
	}
	if mode.Requires(models.VerifyEmail) && (req.Email == "" || !strings.EqualFold(req.Email, st.Email)) {
		return false
	}
	if mode.Requires(models.VerifyPIN) && (req.PIN == "" || req.PIN != st.PIN) {
		return false
	}
	return true
}
