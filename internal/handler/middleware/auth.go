package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielreinosojaya/ultima-ceramic-sub001/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StaffAuthMiddleware guards the staff-only surface (payment confirmation,
// cancellations, payment deletion, schedule administration). Customer-facing
// flows never authenticate; the booking code is their only credential and is
// treated as a lookup key, not a proof of anything.
type StaffAuthMiddleware struct {
	secret []byte
}

const ctxStaffIDKey = "staff_id"

func NewStaffAuthMiddleware(cfg config.AuthConfig) *StaffAuthMiddleware {
	return &StaffAuthMiddleware{secret: []byte(cfg.StaffTokenSecret)}
}

func (m *StaffAuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Staff token required",
			})
			c.Abort()
			return
		}

		staffID, err := m.validateToken(token)
		if err != nil {
			slog.Warn("staff token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxStaffIDKey, staffID)
		c.Next()
	}
}

func (m *StaffAuthMiddleware) validateToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

func GetStaffID(c *gin.Context) (uuid.UUID, bool) {
	staffID, exists := c.Get(ctxStaffIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := staffID.(uuid.UUID)
	return id, ok
}
