package webapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codegoddy/skincare/internal/domain/identity"
	"github.com/codegoddy/skincare/internal/domain/identity/provider"
	httptransport "github.com/codegoddy/skincare/internal/transport/http"
)

// refreshCookieMaxAge keeps the refresh token for 30 days.
const refreshCookieMaxAge = 30 * 24 * 60 * 60

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type profileUpdateRequest struct {
	FullName *string `json:"full_name"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         any    `json:"user,omitempty"`
}

func (s *Service) setSessionCookies(c *gin.Context, session provider.Session) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", session.AccessToken, session.ExpiresIn, "/", "", secure, true)
	if session.RefreshToken != "" {
		c.SetCookie("refresh_token", session.RefreshToken, refreshCookieMaxAge, "/", "", secure, true)
	}
}

func (s *Service) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.SetCookie("refresh_token", "", -1, "/", "", false, true)
}

func sessionPayload(session provider.Session) tokenResponse {
	return tokenResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    session.ExpiresIn,
		User:         session.Identity,
	}
}

func (s *Service) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid signup payload", nil)
		return
	}

	var metadata map[string]any
	if req.FullName != "" {
		metadata = map[string]any{"full_name": req.FullName}
	}
	session, err := s.auth.Signup(c.Request.Context(), req.Email, req.Password, metadata)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}

	s.setSessionCookies(c, session)
	httptransport.RespondSuccess(c, http.StatusCreated, sessionPayload(session), "account created")
}

func (s *Service) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid login payload", nil)
		return
	}

	session, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}

	s.setSessionCookies(c, session)
	httptransport.RespondSuccess(c, http.StatusOK, sessionPayload(session), "logged in")
}

func (s *Service) handleLogout(c *gin.Context) {
	token := identity.Token(c.GetHeader("Authorization"), cookieValue(c, "access_token"))
	s.auth.Logout(c.Request.Context(), token)
	s.clearSessionCookies(c)
	httptransport.RespondSuccess(c, http.StatusOK, nil, "successfully logged out")
}

func (s *Service) handleRefresh(c *gin.Context) {
	// Cookie wins over body, matching the login cookie contract.
	token := cookieValue(c, "refresh_token")
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		httptransport.RespondError(c, http.StatusUnauthorized, "no refresh token provided", nil)
		return
	}

	session, err := s.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}

	s.setSessionCookies(c, session)
	httptransport.RespondSuccess(c, http.StatusOK, sessionPayload(session), "session refreshed")
}

func (s *Service) handleMe(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	profile, err := s.profiles.Ensure(c.Request.Context(), id.SubjectID, id.Email, "")
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, profile, "")
}

func (s *Service) handleForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	// Always the same answer, whether or not the account exists.
	s.auth.RequestPasswordReset(c.Request.Context(), req.Email)
	httptransport.RespondSuccess(c, http.StatusOK, nil, "if the email exists, a reset link has been sent")
}

func (s *Service) handleResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	if err := s.auth.UpdatePassword(c.Request.Context(), req.AccessToken, req.Email, req.NewPassword); err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, nil, "password updated successfully")
}

func (s *Service) handleUpdateProfile(c *gin.Context) {
	id, ok := httptransport.CurrentIdentity(c)
	if !ok {
		httptransport.RespondError(c, http.StatusUnauthorized, "could not validate credentials", nil)
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	fields := map[string]any{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if len(fields) == 0 {
		httptransport.RespondError(c, http.StatusBadRequest, "nothing to update", nil)
		return
	}

	profile, err := s.profiles.Update(c.Request.Context(), id.SubjectID, fields)
	if err != nil {
		httptransport.RespondFromError(c, err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, profile, "profile updated")
}

func cookieValue(c *gin.Context, name string) string {
	v, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return v
}
