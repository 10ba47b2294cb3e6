package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// fail turns a workflow error into the response the user sees. Not-found
// rows end in a 404; rejected input, denied actions and blocked deletes send
// the user back with an error notice; anything else is a 500.
func fail(c *gin.Context, log zerolog.Logger, err error, back, subject string) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, subject+" not found")
	case errors.As(err, &ve):
		utils.RedirectWithNotice(c, back, utils.Failure(capitalize(ve.Message)))
	case errors.Is(err, services.ErrForbidden):
		utils.RedirectWithNotice(c, back, utils.Failure("You do not have permission to do that"))
	case errors.Is(err, services.ErrHasDependents):
		msg := fmt.Sprintf("Cannot delete %s: other records still refer to it", strings.ToLower(subject))
		utils.RedirectWithNotice(c, back, utils.Failure(msg))
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		utils.InternalServerError(c, "Something went wrong")
	}
}

// badInput sends the user back to the form with the reason.
func badInput(c *gin.Context, back string, err error) {
	utils.RedirectWithNotice(c, back, utils.Failure(capitalize(err.Error())))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// pathID reads the :id parameter. Non-numeric ids address nothing.
func pathID(c *gin.Context, subject string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		utils.NotFound(c, subject+" not found")
		return 0, false
	}
	return uint(id), true
}

// principal returns the acting principal set by the session middleware.
func principal(c *gin.Context) (access.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		c.Abort()
	}
	return p, ok
}

// checked reads an HTML checkbox value.
func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
