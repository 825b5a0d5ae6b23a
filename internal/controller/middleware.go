package controller

import (
	"net/http"
	"time"

	"negotiation-api/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

const actorIdKey = "actorId"

// identify resolves the username query parameter to the calling user.
func identify(identity service.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username := c.QueryParam("username")
			if username == "" {
				if e := c.JSON(http.StatusUnauthorized, errorResponse{Reason: "username query parameter is required", Code: "UNAUTHORIZED"}); e != nil {
					return e
				}

				return service.ErrUserNotFound
			}

			userId, err := identity.ResolveUsername(c.Request().Context(), username)
			if err != nil {
				return respondError(c, err)
			}
			c.Set(actorIdKey, userId.String())

			return next(c)
		}
	}
}

func actorId(c echo.Context) string {
	id, _ := c.Get(actorIdKey).(string)

	return id
}

func requestLogger(log *logrus.Entry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			req := c.Request()

			requestId := req.Header.Get(echo.HeaderXRequestID)
			if requestId == "" {
				requestId = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestId)

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}

			entry := log.WithFields(logrus.Fields{
				"request_id": requestId,
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     status,
				"latency":    time.Since(started).String(),
			})
			switch {
			case status >= http.StatusInternalServerError:
				entry.WithError(err).Error("request failed")
			case err != nil:
				entry.WithField("error", err.Error()).Info("request rejected")
			default:
				entry.Info("request handled")
			}

			return err
		}
	}
}
