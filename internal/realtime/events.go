package realtime

type EventType string

const (
	EventActivityCreated     EventType = "ACTIVITY_CREATED"
	EventActivityUpdated     EventType = "ACTIVITY_UPDATED"
	EventActivityDeactivated EventType = "ACTIVITY_DEACTIVATED"
	EventActivityDeleted     EventType = "ACTIVITY_DELETED"
	EventNewSubmission       EventType = "NEW_SUBMISSION"
)

// Event is the envelope written to every socket. Payload is one of the
// typed payload structs below or a *models.Activity for created/updated.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

type DeactivatedPayload struct {
	ID               uint `json:"id"`
	HasBeenActivated bool `json:"has_been_activated"`
}

type DeletedPayload struct {
	ID uint `json:"id"`
}

type SubmissionPayload struct {
	ActivityID uint   `json:"activity_id"`
	StudentID  string `json:"student_id"`
	Type       string `json:"type"`
}
