package realtime

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"classroom-backend/internal/models"
)

var ErrUnknownStudent = errors.New("student not in session roster")

// JoinedStudent is what admission hands the session when a student is let in.
type JoinedStudent struct {
	DBID      uint
	StudentID string
	Name      string
	Token     string
}

type rosterEntry struct {
	dbID  uint
	name  string
	token string
	conn  Conn
}

// Session is the live in-memory state for one course: the roster of
// students who joined (socket attached or not), the instructor's socket,
// and a read-mostly snapshot of the course row. All mutation goes through
// the per-session lock; unrelated courses never contend.
type Session struct {
	courseID uint
	log      *zap.Logger

	mu         sync.RWMutex
	course     *models.Course
	roster     map[string]*rosterEntry
	instructor Conn
}

func newSession(courseID uint, course *models.Course, log *zap.Logger) *Session {
	return &Session{
		courseID: courseID,
		course:   course,
		roster:   make(map[string]*rosterEntry),
		log:      log,
	}
}

func (s *Session) CourseID() uint { return s.courseID }

func (s *Session) Course() *models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course
}

// SetCourse refreshes the cached snapshot after the course row changes.
func (s *Session) SetCourse(course *models.Course) {
	s.mu.Lock()
	s.course = course
	s.mu.Unlock()
}

// AddStudent upserts the roster entry. It never touches the socket: a
// reconnecting student keeps their open conn until the new one attaches.
func (s *Session) AddStudent(st JoinedStudent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.roster[st.StudentID]; ok {
		e.dbID = st.DBID
		e.name = st.Name
		e.token = st.Token
		return
	}
	s.roster[st.StudentID] = &rosterEntry{dbID: st.DBID, name: st.Name, token: st.Token}
}

// AttachStudentConn binds a socket to a joined student. Last socket wins:
// a prior conn for the same student is closed with ReasonReplaced. A
// student the roster has never seen is closed with ReasonForceRelogin so
// the client restarts its join flow (stale token after a rebuild).
func (s *Session) AttachStudentConn(studentID string, conn Conn) error {
	s.mu.Lock()
	e, known := s.roster[studentID]
	var prev Conn
	if known {
		prev = e.conn
		e.conn = conn
	}
	s.mu.Unlock()

	if !known {
		conn.Close(ReasonForceRelogin)
		return ErrUnknownStudent
	}
	if prev != nil {
		prev.Close(ReasonReplaced)
	}
	s.log.Info("student socket attached",
		zap.Uint("course_id", s.courseID),
		zap.String("student_id", studentID))
	return nil
}

// DetachStudentConn clears the student's socket, but only if it still is
// the given conn; a reconnect that already replaced it is left alone.
func (s *Session) DetachStudentConn(studentID string, conn Conn) {
	s.mu.Lock()
	if e, ok := s.roster[studentID]; ok && e.conn == conn {
		e.conn = nil
	}
	s.mu.Unlock()
}

// AttachInstructorConn attaches the single instructor socket, replacing a
// prior one.
func (s *Session) AttachInstructorConn(conn Conn) {
	s.mu.Lock()
	prev := s.instructor
	s.instructor = conn
	s.mu.Unlock()

	if prev != nil {
		prev.Close(ReasonReplaced)
	}
	s.log.Info("instructor socket attached", zap.Uint("course_id", s.courseID))
}

func (s *Session) DetachInstructorConn(conn Conn) {
	s.mu.Lock()
	if s.instructor == conn {
		s.instructor = nil
	}
	s.mu.Unlock()
}

// OnlineCount counts students with an attached socket, not roster size.
func (s *Session) OnlineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.roster {
		if e.conn != nil {
			n++
		}
	}
	return n
}

func (s *Session) RosterSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roster)
}

// Broadcast fans the event out to every attached socket plus the
// instructor. Sends are best effort: this runs after the store has already
// committed, so a failing socket is logged and skipped, never propagated.
// A disconnected student heals via the classroom-status poll.
func (s *Session) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("broadcast marshal failed",
			zap.String("event", string(event.Type)), zap.Error(err))
		return
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.roster))
	conns := make([]Conn, 0, len(s.roster))
	for id, e := range s.roster {
		if e.conn != nil {
			ids = append(ids, id)
			conns = append(conns, e.conn)
		}
	}
	instructor := s.instructor
	s.mu.RUnlock()

	for i, conn := range conns {
		if err := conn.Send(data); err != nil {
			s.log.Warn("broadcast send failed",
				zap.Uint("course_id", s.courseID),
				zap.String("student_id", ids[i]),
				zap.String("event", string(event.Type)),
				zap.Error(err))
		}
	}
	if instructor != nil {
		if err := instructor.Send(data); err != nil {
			s.log.Warn("broadcast send to instructor failed",
				zap.Uint("course_id", s.courseID),
				zap.String("event", string(event.Type)),
				zap.Error(err))
		}
	}
}
