package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"classroom-backend/internal/realtime"
	"classroom-backend/internal/services"
	"classroom-backend/internal/token"
)

type WSHandler struct {
	registry      *realtime.Registry
	codec         *token.Codec
	courseService *services.CourseService
	log           *zap.Logger
}

func NewWSHandler(registry *realtime.Registry, codec *token.Codec, courseService *services.CourseService, log *zap.Logger) *WSHandler {
	return &WSHandler{registry: registry, codec: codec, courseService: courseService, log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleStudentSocket godoc
// @Summary      Student WebSocket connection
// @Description  Attaches the student's socket to the course's live session using the join token.
// @Tags         websocket
// @Param        token path string true "Session token"
// @Router       /ws/connect/{token} [get]
func (h *WSHandler) HandleStudentSocket(c *gin.Context) {
	raw := c.Param("token")

	// Cheap routing peek; the real trust decision is the Decode below.
	courseID, err := token.PeekCourseID(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid token"})
		return
	}

	wsc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := realtime.NewConn(wsc)

	sess, ok := h.registry.Get(courseID)
	if !ok {
		// Expected after a restart wiped in-memory state; not an error.
		h.log.Info("socket for course with no live session", zap.Uint("course_id", courseID))
		conn.Close(realtime.ReasonSessionNotFound)
		return
	}

	claims, err := h.codec.Decode(raw)
	if err != nil {
		conn.Close(realtime.ReasonForceRelogin)
		return
	}

	if err := sess.AttachStudentConn(claims.StudentID, conn); err != nil {
		// The session already closed the conn with its reason.
		return
	}
	defer sess.DetachStudentConn(claims.StudentID, conn)

	for {
		if _, _, err := wsc.ReadMessage(); err != nil {
			break
		}
	}
}

// HandleInstructorSocket godoc
// @Summary      Instructor WebSocket connection
// @Description  Attaches the instructor's socket, creating the live session if needed.
// @Tags         websocket
// @Param        courseId path int true "Course ID"
// @Router       /ws/instructor/{courseId} [get]
func (h *WSHandler) HandleInstructorSocket(c *gin.Context) {
	courseID, ok := parseID(c, "courseId")
	if !ok {
		return
	}

	wsc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn := realtime.NewConn(wsc)

	sess, err := h.registry.GetOrCreate(courseID, h.courseService.Get)
	if err != nil {
		h.log.Info("instructor socket for unknown course", zap.Uint("course_id", courseID))
		conn.Close(realtime.ReasonSessionNotFound)
		return
	}

	sess.AttachInstructorConn(conn)
	defer sess.DetachInstructorConn(conn)

	for {
		if _, _, err := wsc.ReadMessage(); err != nil {
			break
		}
	}
}
