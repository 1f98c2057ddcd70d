package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/classmark/gradebook/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bindRegister(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.RegisterRequest
	return Bind(c, &req)
}

func TestBindRegister(t *testing.T) {
	Setup()

	assert.Nil(t, bindRegister(t, `{"username":"ms","password":"abc","isTeacher":true}`))

	fields := bindRegister(t, `{"username":" ms","password":"ab","isTeacher":false}`)
	assert.Contains(t, fields["username"], "whitespace")
	assert.Contains(t, fields, "password")

	fields = bindRegister(t, `{"username":"ms","password":"abc"}`)
	assert.Contains(t, fields, "isTeacher")

	fields = bindRegister(t, `{"username":`)
	assert.Contains(t, fields, "detail")
}
