package handlers

import (
	"errors"
	"net/http"
	"time"

	"equiptrack/internal/service"

	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Sign in
// @Description  Exchanges credentials for a session token. The token is returned in the body and also set as a cookie for browser clients. The landing field tells the client which screen to open first.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  service.Session
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	session, err := h.services.SignIn(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("auth_sign_in_rejected", "username", input.Username)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSignIn, "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, session)
}

// @Summary      Sign out
// @Description  Clears the session cookie and records the departure. Tokens themselves stay valid until they expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/sign-out [post]
func (h *Handler) signOut(c *gin.Context) {
	// The departure is attributed when the request still carries a valid
	// session; an anonymous sign-out only clears the cookie.
	if token, err := sessionToken(c); err == nil {
		if ident, err := h.services.ParseToken(token); err == nil {
			if err := h.services.SignOut(c.Request.Context(), *ident); err != nil && h.log != nil {
				h.log.Errorw("auth_sign_out_log_failed", "username", ident.Username, "err", err)
			}
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"status": statusSignedOut})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(service.TokenTTL/time.Second), "/", "", false, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
