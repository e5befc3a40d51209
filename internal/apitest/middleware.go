package apitest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	bearerPrefix = "Bearer "
	userIDKey    = "user_id"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
)

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"detail": message})
	c.Abort()
}

// recordMiddleware captures every request for later inspection
func (s *Server) recordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Authorization: c.GetHeader("Authorization"),
			RequestID:     c.GetHeader("X-Request-ID"),
			ContentType:   c.GetHeader("Content-Type"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

// forcedStatusMiddleware answers with a status queued through ForceStatus
func (s *Server) forcedStatusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path

		s.mu.Lock()
		forced, ok := s.forced[key]
		// times < 0 keeps the override until Reset
		if ok && forced.times > 0 {
			forced.times--
			if forced.times == 0 {
				delete(s.forced, key)
			}
		}
		s.mu.Unlock()

		if !ok {
			c.Next()
			return
		}

		if forced.rawBody != "" {
			c.Data(forced.status, "application/json", []byte(forced.rawBody))
		} else {
			c.JSON(forced.status, gin.H{"detail": http.StatusText(forced.status)})
		}
		c.Abort()
	}
}

// authMiddleware validates bearer tokens the way the backend does
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			unauthorized(c, "Not authenticated")
			return
		}

		userID, err := s.validateToken(token)
		if err != nil {
			unauthorized(c, "Invalid authentication credentials")
			return
		}

		s.mu.Lock()
		_, exists := s.usersByID[userID]
		s.mu.Unlock()
		if !exists {
			unauthorized(c, "Invalid authentication credentials")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
