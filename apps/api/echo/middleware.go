package echoapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/user"
)

// accessMiddleware is the single enforcement point ahead of every route. It
// classifies the request path against the policy, resolves the session from
// the Authorization header or the auth cookie, and for admin paths re-reads
// the role from the users table rather than trusting the token. Denials are
// shaped by surface: API paths get JSON errors, page paths get redirects.
func accessMiddleware(conf *core.Config, policy *access.Policy, svc user.Service, logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			class := policy.Classify(path)

			claims := resolveSession(ctx, conf)

			if class == access.ClassPublic {
				// handlers of mixed public/authed paths check the claims
				// themselves
				return next(ctx)
			}

			if claims == nil {
				return denyUnauthenticated(ctx, path)
			}

			if class == access.ClassAdminRestricted {
				// fail closed: any lookup failure is a denial
				lookupCtx, cancel := context.WithTimeout(ctx.Request().Context(), conf.Server.RoleLookupTimeout)
				defer cancel()

				role, err := svc.FindRoleByEmail(lookupCtx, claims.Email)
				if err != nil {
					if lookupCtx.Err() != nil {
						logger.Error("role lookup timed out", err)
					}
					return denyForbidden(ctx)
				}
				if role != access.RoleAdmin {
					return denyForbidden(ctx)
				}
			}

			return next(ctx)
		}
	}
}

// resolveSession parses and verifies the session token if one is present,
// caching the claims in the request context. Returns nil when the request
// carries no valid session.
func resolveSession(ctx echo.Context, conf *core.Config) *Claims {
	tokenStr, ok := extractToken(ctx)
	if !ok {
		return nil
	}
	claims, err := parseToken(conf, tokenStr)
	if err != nil {
		return nil
	}
	ctx.Set(contextClaimsKey, claims)
	return claims
}

func isAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func denyUnauthenticated(ctx echo.Context, path string) error {
	if isAPIPath(path) {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	}
	return ctx.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(path))
}

func denyForbidden(ctx echo.Context) error {
	if isAPIPath(ctx.Request().URL.Path) {
		return ctx.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	}
	return ctx.Redirect(http.StatusFound, "/dashboard")
}
