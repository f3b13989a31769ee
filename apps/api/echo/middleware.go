package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-lms/core/session"
	"github.com/trezcool/masomo-lms/core/user"
)

const ctxUserKey = "user"

// sessionMiddleware rejects requests made while logged out and stores the session User in the context.
func sessionMiddleware(sess *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, ok := sess.Current()
			if !ok {
				return errUnauthorized
			}
			ctx.Set(ctxUserKey, usr)
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	usr, ok := ctx.Get(ctxUserKey).(user.User)
	if !ok {
		return user.User{}, errUsrNotFoundInCtx
	}
	return usr, nil
}
