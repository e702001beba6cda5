package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"classroom-backend/internal/services"
	"classroom-backend/internal/token"
)

// JWTAuth guards instructor endpoints. On success the instructor id is
// available on the context as "instructor_id".
func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		instructorID, err := authService.ValidateToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("instructor_id", instructorID)
		c.Next()
	}
}

// StudentAuth guards student endpoints using the session token issued on
// join. Any decode failure collapses to one generic response.
func StudentAuth(codec *token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		claims, err := codec.Decode(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("course_id", claims.CourseID)
		c.Set("student_db_id", claims.StudentDBID)
		c.Set("student_id", claims.StudentID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
