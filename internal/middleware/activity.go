package middleware

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-records-api/internal/models"
	"github.com/noah-isme/student-records-api/internal/service"
)

// maxLoggedBody caps how much of a JSON body is buffered for the activity log.
const maxLoggedBody = 1 << 20

var operationalPaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Activity records every non-preflight request before the route handler runs. The
// entry is handed to the background writer, so logging never delays or fails the
// request. Identity must run first.
func Activity(svc *service.ActivityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.Enabled() || skipActivity(c.Request) {
			c.Next()
			return
		}

		contentType := c.GetHeader("Content-Type")
		var body []byte
		if isJSON(contentType) && c.Request.Body != nil {
			body = peekBody(c.Request)
		}

		svc.Log(models.Activity{
			UserID:  UserID(c),
			Action:  c.Request.Method + " " + c.Request.URL.RequestURI(),
			Details: svc.Details(contentType, body),
		})
		c.Next()
	}
}

func skipActivity(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	if _, ok := operationalPaths[r.URL.Path]; ok {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/docs/")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// peekBody reads the body and puts it back for the handler. Oversized bodies are
// restored untouched and logged as empty.
func peekBody(r *http.Request) []byte {
	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), r.Body), Closer: r.Body}
	if err != nil || len(head) > maxLoggedBody {
		return nil
	}
	return head
}

type readCloser struct {
	io.Reader
	io.Closer
}
