package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// ErrorBody is the error contract shared by every endpoint.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageBody acknowledges a write.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends data as the raw response body.
func JSON(c *gin.Context, status int, data interface{}) {
	noStore(c)
	c.JSON(status, data)
}

// Message responds with {"message": ...}.
func Message(c *gin.Context, status int, message string) {
	JSON(c, status, MessageBody{Message: message})
}

// Error converts err to the common structure. Details carry the underlying cause
// for server-side failures only.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := ErrorBody{Error: appErr.Message}
	if appErr.Status >= http.StatusInternalServerError {
		body.Details = appErr.Details()
	}
	noStore(c)
	c.JSON(appErr.Status, body)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
