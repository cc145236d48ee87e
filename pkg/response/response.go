package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"campaignqa-srv/pkg/discord"
	pkgErrors "campaignqa-srv/pkg/errors"

	"github.com/gin-gonic/gin"
)

// OK writes a 200 response wrapping data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{
		ErrorCode: 0,
		Message:   messageSuccess,
		Data:      data,
	})
}

// Error writes err. HTTPErrors keep their status, everything else becomes 500 and is
// reported to Discord when a client is configured.
func Error(c *gin.Context, err error, d discord.IDiscord) {
	var httpErr *pkgErrors.HTTPError
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.StatusCode, Resp{
			ErrorCode: httpErr.Code,
			Message:   httpErr.Message,
		})
		return
	}

	reportBug(c.Request.Context(), d, fmt.Sprintf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err))
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: http.StatusInternalServerError,
		Message:   messageInternalError,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, pkgErrors.NewUnauthorizedHTTPError(), nil)
}

func Forbidden(c *gin.Context) {
	Error(c, pkgErrors.NewForbiddenHTTPError(), nil)
}

// PanicError answers a recovered panic with a 500 and reports the stack.
func PanicError(c *gin.Context, recovered any, d discord.IDiscord) {
	reportBug(c.Request.Context(), d, fmt.Sprintf("panic %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, recovered, debug.Stack()))
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: http.StatusInternalServerError,
		Message:   messageInternalError,
	})
}

func reportBug(ctx context.Context, d discord.IDiscord, msg string) {
	if d == nil {
		return
	}
	go func() {
		_ = d.ReportBug(context.WithoutCancel(ctx), msg)
	}()
}
