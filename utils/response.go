package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape every endpoint returns.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

// Respond writes a success envelope.
func Respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		StatusCode: status,
		Data:       data,
	})
}

// RespondError writes a failure envelope. APIErrors keep their status and
// message; anything else is reported as an internal error without leaking
// the underlying cause to the client.
func RespondError(c *gin.Context, err error) {
	if apiErr, ok := AsAPIError(err); ok {
		c.JSON(apiErr.StatusCode, Envelope{
			Success:    false,
			Message:    apiErr.Message,
			StatusCode: apiErr.StatusCode,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success:    false,
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
	})
}

// RespondValidation writes a 400 envelope with field-level details.
func RespondValidation(c *gin.Context, message string, details interface{}) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success:    false,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Errors:     details,
	})
}
