package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vibe-planner/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "auth_token"

	// Context keys set for downstream handlers.
	CtxSessionID   = "session_id"
	CtxAccessToken = "access_token"
)

var errNoToken = errors.New("Authorization token not provided")

// Session is the state carried in the signed session token.
type Session struct {
	ID          string
	AccessToken string
	Expiry      time.Time
}

// IssueSessionToken signs a session into a JWT for the auth cookie.
func IssueSessionToken(s Session) (string, error) {
	if len(config.JwtKey) == 0 {
		return "", errors.New("JWT signing key not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":          s.ID,
		"access_token": s.AccessToken,
		"exp":          s.Expiry.Unix(),
		"iat":          time.Now().Unix(),
	})
	return token.SignedString(config.JwtKey)
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessionFromRequest(c)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				ClearSessionCookie(c)
			}
			handleAuthError(c, err.Error())
			return
		}
		setContextAndProceed(c, session)
	}
}

// OptionalAuthMiddleware attaches the session when one is present and lets
// anonymous requests through.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sessionFromRequest(c)
		if err != nil {
			c.Next()
			return
		}
		setContextAndProceed(c, session)
	}
}

// ClearSessionCookie expires the auth cookie.
func ClearSessionCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", secureCookies(), true)
}

// SessionID returns the session id set by the auth middlewares, if any.
func SessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}

// AccessToken returns the Google access token set by the auth middlewares, if any.
func AccessToken(c *gin.Context) string {
	return c.GetString(CtxAccessToken)
}

func sessionFromRequest(c *gin.Context) (*Session, error) {
	tokenStr, err := c.Cookie(CookieName)
	if err != nil || tokenStr == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return nil, errNoToken
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return nil, errors.New("Invalid Authorization header format")
		}
		tokenStr = parts[1]
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("Invalid token claims")
	}

	sid, _ := claims["sid"].(string)
	accessToken, _ := claims["access_token"].(string)
	if sid == "" || accessToken == "" {
		return nil, errors.New("Invalid session in token")
	}

	session := &Session{ID: sid, AccessToken: accessToken}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.Expiry = exp.Time
	}
	return session, nil
}

func setContextAndProceed(c *gin.Context, s *Session) {
	c.Set(CtxSessionID, s.ID)
	c.Set(CtxAccessToken, s.AccessToken)
	c.Next()
}

func secureCookies() bool {
	return config.Cfg != nil && config.Cfg.Auth.SecureCookies
}

func handleAuthError(c *gin.Context, message string) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusFound, "/")
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	}
	c.Abort()
}
