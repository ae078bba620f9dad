package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		body   string
	}{
		{"ok", func(c *gin.Context) { OK(c, "", gin.H{"n": 1}) }, http.StatusOK, `{"success":true,"data":{"n":1}}`},
		{"created", func(c *gin.Context) { Created(c, "Resource created", nil) }, http.StatusCreated, `{"success":true,"message":"Resource created"}`},
		{"accepted", func(c *gin.Context) { Accepted(c, "", gin.H{"job_id": "j"}) }, http.StatusAccepted, `{"success":true,"data":{"job_id":"j"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.write(c)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, errors.New("boom"))

	assert.True(t, c.IsAborted())
	assert.Len(t, c.Errors, 1)
	assert.False(t, c.Writer.Written())
}
