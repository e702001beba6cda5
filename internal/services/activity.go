package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"classroom-backend/internal/models"
	"classroom-backend/internal/realtime"
	"classroom-backend/internal/storage"
)

var (
	ErrActivityNotActive = errors.New("activity is not active")
	ErrAlreadySubmitted  = errors.New("already submitted")
	ErrInvalidPayload    = errors.New("activity payload does not match type")
	ErrInvalidSubmission = errors.New("submission does not satisfy activity rules")
)

// ActivityService owns the activity lifecycle and the single invariant the
// storage layer does not enforce: at most one active activity per course.
// Every mutation persists first and only then notifies the live session,
// so clients never see an event for a state the store rolled back.
type ActivityService struct {
	activities  storage.ActivityStore
	submissions storage.SubmissionStore
	registry    *realtime.Registry
	scoring     *ScoringService
	log         *zap.Logger
}

func NewActivityService(
	activities storage.ActivityStore,
	submissions storage.SubmissionStore,
	registry *realtime.Registry,
	scoring *ScoringService,
	log *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activities:  activities,
		submissions: submissions,
		registry:    registry,
		scoring:     scoring,
		log:         log,
	}
}

type ActivityInput struct {
	Type        models.ActivityType
	Title       string
	Description string
	ExpiresAt   *time.Time
	Quiz        *models.QuizConfig
	Poll        *models.PollConfig
	Discussion  *models.DiscussionConfig
}

func (in ActivityInput) validate() error {
	switch in.Type {
	case models.ActivityQuiz:
		if in.Quiz == nil || in.Poll != nil || in.Discussion != nil {
			return ErrInvalidPayload
		}
	case models.ActivityPoll:
		if in.Poll == nil || in.Quiz != nil || in.Discussion != nil {
			return ErrInvalidPayload
		}
	case models.ActivityDiscussion:
		if in.Discussion == nil || in.Quiz != nil || in.Poll != nil {
			return ErrInvalidPayload
		}
	default:
		return ErrInvalidPayload
	}
	return nil
}

func (s *ActivityService) Create(courseID uint, in ActivityInput) (*models.Activity, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &models.Activity{
		CourseID:    courseID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		ExpiresAt:   in.ExpiresAt,
		Quiz:        in.Quiz,
		Poll:        in.Poll,
		Discussion:  in.Discussion,
	}
	if err := s.activities.Create(a); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	s.registry.Broadcast(courseID, realtime.Event{
		Type:    realtime.EventActivityCreated,
		Payload: a,
	})
	return a, nil
}

// Update replaces the content fields; the activation flags are only ever
// touched by SetActive.
func (s *ActivityService) Update(id uint, in ActivityInput) (*models.Activity, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a, err := s.activities.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a.Type != in.Type {
		return nil, ErrInvalidPayload
	}

	a.Title = in.Title
	a.Description = in.Description
	a.ExpiresAt = in.ExpiresAt
	a.Quiz = in.Quiz
	a.Poll = in.Poll
	a.Discussion = in.Discussion

	if err := s.activities.Update(a); err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}

	s.registry.Broadcast(a.CourseID, realtime.Event{
		Type:    realtime.EventActivityUpdated,
		Payload: a,
	})
	return a, nil
}

func (s *ActivityService) Delete(id uint) error {
	a, err := s.activities.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.activities.Delete(id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}

	s.registry.Broadcast(a.CourseID, realtime.Event{
		Type:    realtime.EventActivityDeleted,
		Payload: realtime.DeletedPayload{ID: id},
	})
	return nil
}

// SetActive flips the activity's active flag. Activating auto-deactivates
// every other active activity of the course; the whole batch persists in
// one transaction before anything is broadcast. Deactivation events for
// the siblings precede the target's own event. HasBeenActivated is set on
// first activation and never cleared.
func (s *ActivityService) SetActive(id uint, active bool) (*models.Activity, error) {
	a, err := s.activities.GetByID(id)
	if err != nil {
		return nil, err
	}

	var deactivated []*models.Activity
	switch {
	case active && !a.IsActive:
		siblings, err := s.activities.ListActiveByCourse(a.CourseID)
		if err != nil {
			return nil, fmt.Errorf("load active activities: %w", err)
		}
		for i := range siblings {
			if siblings[i].ID == a.ID {
				continue
			}
			siblings[i].IsActive = false
			deactivated = append(deactivated, &siblings[i])
		}
		a.IsActive = true
		a.HasBeenActivated = true
	case !active:
		a.IsActive = false
	}

	if err := s.activities.UpdateAll(append(deactivated, a)); err != nil {
		return nil, fmt.Errorf("persist activation: %w", err)
	}

	for _, d := range deactivated {
		s.registry.Broadcast(a.CourseID, realtime.Event{
			Type:    realtime.EventActivityDeactivated,
			Payload: realtime.DeactivatedPayload{ID: d.ID, HasBeenActivated: d.HasBeenActivated},
		})
	}
	if a.IsActive {
		s.registry.Broadcast(a.CourseID, realtime.Event{
			Type:    realtime.EventActivityUpdated,
			Payload: a,
		})
	} else {
		s.registry.Broadcast(a.CourseID, realtime.Event{
			Type:    realtime.EventActivityDeactivated,
			Payload: realtime.DeactivatedPayload{ID: a.ID, HasBeenActivated: a.HasBeenActivated},
		})
	}
	return a, nil
}

func (s *ActivityService) Get(id uint) (*models.Activity, error) {
	return s.activities.GetByID(id)
}

func (s *ActivityService) ListByCourse(courseID uint) ([]models.Activity, error) {
	return s.activities.ListByCourse(courseID)
}

func (s *ActivityService) ListSubmissions(activityID uint) ([]models.Submission, error) {
	return s.submissions.ListByActivity(activityID)
}

type SubmissionInput struct {
	QuizAnswers    []int
	PollSelected   []int
	DiscussionText string
}

// Submit records one student's response. The courseID comes from the
// student's session token, so an activity belonging to another course reads
// as not-found rather than revealing it exists. A second submission for the
// same (activity, student) pair is rejected; the composite unique index in
// the store backs this up when two submits race past the existence check.
func (s *ActivityService) Submit(courseID, activityID, studentDBID uint, studentID string, in SubmissionInput) (*models.Submission, error) {
	a, err := s.activities.GetByID(activityID)
	if err != nil {
		return nil, err
	}
	if a.CourseID != courseID {
		return nil, storage.ErrNotFound
	}
	if !a.IsActive {
		return nil, ErrActivityNotActive
	}

	exists, err := s.submissions.Exists(activityID, studentDBID)
	if err != nil {
		return nil, fmt.Errorf("check submission: %w", err)
	}
	if exists {
		return nil, ErrAlreadySubmitted
	}

	sub := &models.Submission{
		ActivityID: activityID,
		StudentID:  studentDBID,
		CourseID:   a.CourseID,
		Type:       a.Type,
	}
	switch a.Type {
	case models.ActivityQuiz:
		sub.Quiz = &models.QuizAnswers{
			Answers: in.QuizAnswers,
			Score:   s.scoring.ScoreQuiz(a.Quiz, in.QuizAnswers),
		}
	case models.ActivityPoll:
		if a.Poll != nil && !a.Poll.MultiSelect && len(in.PollSelected) > 1 {
			return nil, ErrInvalidSubmission
		}
		sub.Poll = &models.PollChoice{Selected: in.PollSelected}
	case models.ActivityDiscussion:
		if a.Discussion != nil && a.Discussion.MaxLength > 0 && utf8.RuneCountInString(in.DiscussionText) > a.Discussion.MaxLength {
			return nil, ErrInvalidSubmission
		}
		approved := a.Discussion == nil || !a.Discussion.RequiresApproval
		sub.Discussion = &models.DiscussionPost{Text: in.DiscussionText, Approved: approved}
	}

	if err := s.submissions.Create(sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.registry.Broadcast(a.CourseID, realtime.Event{
		Type: realtime.EventNewSubmission,
		Payload: realtime.SubmissionPayload{
			ActivityID: activityID,
			StudentID:  studentID,
			Type:       string(a.Type),
		},
	})
	return sub, nil
}

type ClassroomStatus struct {
	JoinedStudentsCount int              `json:"joined_students_count"`
	CurrentActivity     *models.Activity `json:"current_activity"`
	IsClassroomActive   bool             `json:"is_classroom_active"`
}

// ClassroomStatus is the polling escape hatch for clients that missed a
// broadcast: the store answers what is active, the registry answers who is
// online.
func (s *ActivityService) ClassroomStatus(courseID uint) (*ClassroomStatus, error) {
	status := &ClassroomStatus{}

	if sess, ok := s.registry.Get(courseID); ok {
		status.IsClassroomActive = true
		status.JoinedStudentsCount = sess.OnlineCount()
	}

	a, err := s.activities.GetActiveByCourse(courseID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		status.CurrentActivity = a
	}
	return status, nil
}
