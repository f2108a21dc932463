package api

import (
	"errors"
	"fmt"
	"github.com/tidwall/gjson"
	"net/http"
)

// ApiError is the only error type the client returns. Status 0 means the
// request never produced an HTTP response.
type ApiError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Detail  any    `json:"detail,omitempty"`
}

func (e *ApiError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *ApiError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func (e *ApiError) Network() bool {
	return e.Status == 0
}

// AsApiError unwraps err into an *ApiError.
func AsApiError(err error) (*ApiError, bool) {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func networkError(err error) *ApiError {
	return &ApiError{Message: "network error: " + err.Error(), Status: 0}
}

// shapeError builds an ApiError from a non-2xx response. String `detail`
// wins over `message`; structured `detail` (validation errors) is kept as is.
func shapeError(status int, body []byte) *ApiError {
	apiErr := &ApiError{
		Message: fmt.Sprintf("request failed with status %d", status),
		Status:  status,
	}
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return apiErr
	}

	detail := gjson.GetBytes(body, "detail")
	message := gjson.GetBytes(body, "message")
	if detail.Exists() {
		apiErr.Detail = detail.Value()
	}
	switch {
	case detail.Type == gjson.String && detail.String() != "":
		apiErr.Message = detail.String()
	case message.Type == gjson.String && message.String() != "":
		apiErr.Message = message.String()
	}
	return apiErr
}
