package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vibe-planner/config"
	"vibe-planner/internal/cache"
	"vibe-planner/internal/gcal"
	"vibe-planner/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 10 * time.Minute
)

var errOAuthNotConfigured = errors.New("Google sign-in is not configured")

// exchangeCode trades an authorization code for a token.
var exchangeCode = func(ctx context.Context, code string) (*oauth2.Token, error) {
	if config.OAuthConfig == nil {
		return nil, errOAuthNotConfigured
	}
	return config.OAuthConfig.Exchange(ctx, code)
}

// LoginHandler redirects to the Google consent screen.
func LoginHandler(c *gin.Context) {
	if config.OAuthConfig == nil || config.OAuthConfig.ClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errOAuthNotConfigured.Error()})
		return
	}

	state := uuid.NewString()
	c.SetCookie(stateCookie, state, int(stateCookieTTL.Seconds()), "/", "", secureCookies(), true)
	c.Redirect(http.StatusFound, config.OAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// OAuthCallbackHandler finishes the Google sign-in and starts a session.
func OAuthCallbackHandler(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	c.SetCookie(stateCookie, "", -1, "/", "", secureCookies(), true)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	if errParam := c.Query("error"); errParam != "" {
		slog.Warn("Google sign-in was declined", "error", errParam)
		c.Redirect(http.StatusFound, "/")
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	token, err := exchangeCode(c.Request.Context(), code)
	if err != nil {
		slog.Error("OAuth code exchange failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not complete Google sign-in"})
		return
	}

	expiry := time.Now().Add(sessionTTL())
	if !token.Expiry.IsZero() && token.Expiry.Before(expiry) {
		expiry = token.Expiry
	}
	session := middleware.Session{ID: uuid.NewString(), AccessToken: token.AccessToken, Expiry: expiry}

	signed, err := middleware.IssueSessionToken(session)
	if err != nil {
		slog.Error("Failed to sign session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	maxAge := int(time.Until(expiry).Seconds())
	c.SetCookie(middleware.CookieName, signed, maxAge, "/", "", secureCookies(), true)
	slog.Info("User signed in", "session_id", session.ID, "expires", expiry)
	c.Redirect(http.StatusFound, "/")
}

// LogoutHandler ends the session and forgets its cached calendar id.
func LogoutHandler(c *gin.Context) {
	if sid := middleware.SessionID(c); sid != "" {
		cache.New(config.RDB).Del(c.Request.Context(), gcal.AppCalendarKey(sid))
	}
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func sessionTTL() time.Duration {
	if config.Cfg != nil && config.Cfg.Auth.SessionTTL > 0 {
		return config.Cfg.Auth.SessionTTL
	}
	return time.Hour
}

func secureCookies() bool {
	return config.Cfg != nil && config.Cfg.Auth.SecureCookies
}
