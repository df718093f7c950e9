// internal/app/features/auth/handler.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	apierrors "github.com/dalemusser/collabboard/internal/app/features/errors"
	"github.com/dalemusser/collabboard/internal/app/store/resettokens"
	userstore "github.com/dalemusser/collabboard/internal/app/store/users"
	sysauth "github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/dalemusser/collabboard/internal/app/system/authutil"
	"github.com/dalemusser/collabboard/internal/app/system/mailer"
	"github.com/dalemusser/collabboard/internal/app/system/normalize"
	"github.com/dalemusser/collabboard/internal/app/system/timeouts"
	"github.com/dalemusser/collabboard/internal/domain/models"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Handler serves email/password authentication.
type Handler struct {
	Users      *userstore.Store
	Resets     *resettokens.Store
	SessionMgr *sysauth.SessionManager
	Mailer     *mailer.Mailer
	BaseURL    string
	SiteName   string
	ResetTTL   time.Duration
	Log        *zap.Logger
}

// NewHandler constructs the auth Handler.
func NewHandler(
	users *userstore.Store,
	resets *resettokens.Store,
	sessionMgr *sysauth.SessionManager,
	mail *mailer.Mailer,
	baseURL, siteName string,
	resetTTL time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      users,
		Resets:     resets,
		SessionMgr: sessionMgr,
		Mailer:     mail,
		BaseURL:    baseURL,
		SiteName:   siteName,
		ResetTTL:   resetTTL,
		Log:        logger,
	}
}

// userResponse is the caller-facing view of an account.
type userResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name,omitempty"`
	ProfileComplete bool   `json:"profile_complete"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:              u.ID.Hex(),
		Email:           u.Email,
		Name:            u.Name,
		ProfileComplete: u.ProfileComplete(),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup.
// Creates the credential plus a profile stub, exactly once per email,
// and signs the new account in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}
	if normalize.Email(req.Email) == "" {
		apierrors.BadRequest(w, "email is required")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		apierrors.BadRequest(w, authutil.PasswordRules())
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.CreateWithPassword(ctx, req.Email, hash)
	if err == userstore.ErrDuplicateEmail {
		apierrors.Conflict(w, "an account with this email already exists")
		return
	}
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	h.signIn(w, r, &u)
	h.Log.Info("account created", zap.String("user_id", u.ID.Hex()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toUserResponse(&u))
}

// Login handles POST /api/auth/login. Wrong email and wrong password get
// the same reply so the endpoint doesn't confirm which accounts exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err == userstore.ErrNotFound {
		apierrors.Write(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	if normalize.AuthMethod(u.AuthMethod) != "password" {
		apierrors.Write(w, http.StatusUnauthorized,
			"this account uses Google sign-in")
		return
	}
	if !authutil.CheckPassword(u.PasswordHash, req.Password) {
		apierrors.Write(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.signIn(w, r, u)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toUserResponse(u))
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("failed to clear session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/auth/forgot-password. Always answers
// 202 so the endpoint can't be used to enumerate accounts.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	switch {
	case err == userstore.ErrNotFound:
		// fall through to the generic reply
	case err != nil:
		apierrors.Internal(w, h.Log, err)
		return
	case normalize.AuthMethod(u.AuthMethod) != "password":
		h.Log.Info("reset requested for non-password account",
			zap.String("user_id", u.ID.Hex()))
	default:
		token := uuid.NewString()
		if _, err := h.Resets.Issue(ctx, token, u.ID); err != nil {
			apierrors.Internal(w, h.Log, err)
			return
		}

		msg := mailer.BuildResetEmail(mailer.ResetEmailData{
			SiteName:  h.SiteName,
			ResetLink: h.BaseURL + "/reset-password?token=" + url.QueryEscape(token),
			ExpiresIn: h.ResetTTL.String(),
		})
		msg.To = u.Email
		if err := h.Mailer.Send(msg); err != nil {
			apierrors.BadGateway(w, h.Log, err, "could not send reset email")
			return
		}
		h.Log.Info("reset email sent", zap.String("user_id", u.ID.Hex()))
	}

	w.WriteHeader(http.StatusAccepted)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /api/auth/reset-password. The token is
// single-use; a spent or expired token fails cleanly.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}
	if req.Token == "" {
		apierrors.BadRequest(w, "token is required")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		apierrors.BadRequest(w, authutil.PasswordRules())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	userID, valid, err := h.Resets.Consume(ctx, req.Token)
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}
	if !valid {
		apierrors.BadRequest(w, "reset link is invalid or expired")
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	h.Log.Info("password reset", zap.String("user_id", userID.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

// signIn establishes the session cookie, tolerating a stale cookie the
// same way the login flow always has.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u *models.User) {
	err := h.SessionMgr.SignIn(w, r, sysauth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	})
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
			return
		}
		h.Log.Error("failed to save session", zap.Error(err),
			zap.String("user_id", u.ID.Hex()))
	}
}
