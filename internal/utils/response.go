package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NoticeKind classifies a flash notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a one-shot message shown on the next view.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Success builds a success notice.
func Success(message string) Notice { return Notice{Kind: NoticeSuccess, Message: message} }

// Failure builds an error notice.
func Failure(message string) Notice { return Notice{Kind: NoticeError, Message: message} }

// Info builds an informational notice.
func Info(message string) Notice { return Notice{Kind: NoticeInfo, Message: message} }

// ResponseData represents the structure of a standard response. Views carry
// the name of the screen they stand for plus any pending notices.
type ResponseData struct {
	Status  int         `json:"status"`
	View    string      `json:"view,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Notices []Notice    `json:"notices"`
	Error   string      `json:"error,omitempty"`
}

// View sends a 200 view response, consuming pending flash notices. Extra
// notices are appended after them.
func View(c *gin.Context, view string, data interface{}, extra ...Notice) {
	ViewStatus(c, http.StatusOK, view, data, extra...)
}

// ViewStatus is View with an explicit status code.
func ViewStatus(c *gin.Context, status int, view string, data interface{}, extra ...Notice) {
	notices := append(TakeNotices(c), extra...)
	if notices == nil {
		notices = []Notice{}
	}
	c.JSON(status, ResponseData{
		Status:  status,
		View:    view,
		Data:    data,
		Notices: notices,
	})
}

// RedirectWithNotice queues notices for the next view and redirects.
func RedirectWithNotice(c *gin.Context, location string, notices ...Notice) {
	PushNotices(c, notices...)
	c.Redirect(http.StatusFound, location)
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Notices: []Notice{},
		Error:   errorMessage,
	})
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
