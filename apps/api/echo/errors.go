package echoapi

import (
	"net/http"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/protimer/core"
	"github.com/trezcool/protimer/core/flashcard"
	"github.com/trezcool/protimer/core/habit"
	"github.com/trezcool/protimer/core/meeting"
	"github.com/trezcool/protimer/core/studygroup"
	"github.com/trezcool/protimer/core/studysession"
	"github.com/trezcool/protimer/core/task"
	"github.com/trezcool/protimer/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errTooManyRequests      = echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
)

// domainErrors maps the core sentinel errors to their HTTP status.
var domainErrors = map[error]int{
	user.ErrNotFound:                 http.StatusNotFound,
	task.ErrNotFound:                 http.StatusNotFound,
	habit.ErrNotFound:                http.StatusNotFound,
	flashcard.ErrDeckNotFound:        http.StatusNotFound,
	flashcard.ErrCardNotFound:        http.StatusNotFound,
	meeting.ErrNotFound:              http.StatusNotFound,
	studysession.ErrNotFound:         http.StatusNotFound,
	studygroup.ErrNotFound:           http.StatusNotFound,
	studygroup.ErrNotMember:          http.StatusNotFound,
	studygroup.ErrPrivate:            http.StatusForbidden,
	studygroup.ErrNotCreator:         http.StatusForbidden,
	studygroup.ErrCreatorCannotLeave: http.StatusForbidden,
}

// domainStatus looks up the status of a core sentinel error.
// Errors of uncomparable types (validator.ValidationErrors is a slice) never match.
func domainStatus(cause error) (int, bool) {
	if cause == nil || !reflect.TypeOf(cause).Comparable() {
		return 0, false
	}
	code, ok := domainErrors[cause]
	return code, ok
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if status, ok := domainStatus(cause); ok {
			code = status
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = errUnauthorized.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				usr, _ := getContextUser(ctx)
				logger.Error(msg, errors.Wrap(err, msg), usr)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
