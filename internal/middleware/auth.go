package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/pkg/config"
	"github.com/buildledger/construct-api/pkg/jwtutil"
	"github.com/buildledger/construct-api/pkg/logger"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// IdentityKey is the Echo context key holding the resolved identity
const IdentityKey = "identity"

// unauthorized writes a 401 in the same envelope every other error
// status uses: success, message, timestamp.
func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"success":   false,
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// AuthMiddleware resolves the caller's tenant identity. Production path
// verifies the bearer token; the development override substitutes the
// configured fixed identity and is unreachable unless AUTH_DEV_MODE is
// set.
func AuthMiddleware(jwtUtil *jwtutil.JWTUtil, authConfig *config.AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)
			prometheus.AuthAttemptsCounter.Inc()

			if authConfig.DevMode {
				c.Set(IdentityKey, engine.Identity{
					TenantID:  authConfig.DevTenantID,
					Principal: authConfig.DevPrincipal,
				})
				log.Debug("Using development identity override",
					zap.Uint("tenant_id", authConfig.DevTenantID))
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.AuthErrorsCounter.Inc()
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				prometheus.AuthErrorsCounter.Inc()
				return unauthorized(c, "invalid authorization header format")
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.AuthErrorsCounter.Inc()
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(IdentityKey, engine.Identity{
				TenantID:  claims.TenantID,
				Principal: claims.Email,
			})
			log.Debug("JWT token validated successfully",
				zap.Uint("tenant_id", claims.TenantID),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}

// IdentityFrom retrieves the resolved identity from the Echo context
func IdentityFrom(c echo.Context) (engine.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(engine.Identity)
	return identity, ok
}
