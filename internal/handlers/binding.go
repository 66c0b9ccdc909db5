package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

var errEmptyBody = errors.New("request body is required")

// BindNestedOrFlat decodes the request body into obj. Clients may wrap the
// payload under key ({"invoice": {...}}) or send it bare ({...}); a present
// key is authoritative, so a malformed nested value is an error rather than
// a fallback to the flat form. The body stays readable afterwards.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		var err error
		if body, err = io.ReadAll(c.Request.Body); err != nil {
			return err
		}
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return errEmptyBody
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err == nil {
		if nested, ok := envelope[key]; ok {
			return json.Unmarshal(nested, obj)
		}
	}
	return json.Unmarshal(body, obj)
}
