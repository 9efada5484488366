package httperr

import (
	"github.com/gin-gonic/gin"
)

// Kind values tell the storefront what the buyer can do next.
const (
	KindRetry          = "retry"
	KindContactSupport = "contact_support"
	KindExpired        = "expired"
	KindWait           = "wait"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Kind    string `json:"kind,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithKind(c, status, err, msg, "", detail)
}

func AbortWithKind(c *gin.Context, status int, err error, msg, kind string, detail any) {
	if err == nil {
		panic("AbortWithKind: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Kind = kind
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
