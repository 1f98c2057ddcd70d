package middleware

import (
	"net/http"

	"github.com/classmark/gradebook/internal/response"
	"github.com/gin-gonic/gin"
)

// RequireTeacher admits only teacher tokens. Must run after RequireJWT.
func RequireTeacher() gin.HandlerFunc {
	return requireRole(true, response.ErrTeacherAccessOnly)
}

// RequireStudent admits only student tokens. Must run after RequireJWT.
func RequireStudent() gin.HandlerFunc {
	return requireRole(false, response.ErrStudentAccessOnly)
}

func requireRole(teacher bool, code response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.IsTeacher != teacher {
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}
		c.Next()
	}
}
