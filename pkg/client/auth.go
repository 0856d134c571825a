package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/campusvault/CampusVault/internal/models"
	"github.com/campusvault/CampusVault/internal/services"
)

// Register creates an account. The server mails a verification token before
// the account can log in.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (models.User, error) {
	var payload struct {
		User models.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password, "full_name": fullName}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &payload); err != nil {
		return models.User{}, err
	}
	return payload.User, nil
}

// VerifyEmail redeems an email-verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/verify-email", map[string]string{"token": token}, nil)
}

// Login authenticates and stores the resulting session on the client.
// Accounts with 2FA enabled must pass their current TOTP code.
func (c *Client) Login(ctx context.Context, email, password, totpCode string) (Session, error) {
	var payload struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password, "totp_code": totpCode}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &payload); err != nil {
		return Session{}, err
	}
	s := Session{Token: payload.Token, User: payload.User}
	c.SetSession(s)
	return s, nil
}

// Logout clears the stored session no matter what the server answers.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.SetSession(Session{})
	return err
}

// Me fetches the current account and refreshes the cached user record.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return models.User{}, err
	}
	c.mu.Lock()
	c.session.User = user
	c.mu.Unlock()
	return user, nil
}

// UpdateProfile edits the academic profile fields.
func (c *Client) UpdateProfile(ctx context.Context, upd services.ProfileUpdate) (models.User, error) {
	var payload struct {
		User models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", upd, &payload); err != nil {
		return models.User{}, err
	}
	c.mu.Lock()
	c.session.User = payload.User
	c.mu.Unlock()
	return payload.User, nil
}

// RefreshToken swaps the current token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) error {
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/token", nil, &payload); err != nil {
		return err
	}
	c.mu.Lock()
	c.session.Token = payload.Token
	c.mu.Unlock()
	return nil
}

// ForgotPassword requests a single-channel password reset mail.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword finishes the single-channel reset.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}

// Setup2FA starts TOTP enrollment: the server answers with the shared
// secret, the otpauth URL and a QR code. The wizard's verify step follows
// with Verify2FA once the user's authenticator is configured.
func (c *Client) Setup2FA(ctx context.Context) (services.TwoFASetup, error) {
	var setup services.TwoFASetup
	if err := c.doJSON(ctx, http.MethodPost, "/auth/setup-2fa", nil, &setup); err != nil {
		return services.TwoFASetup{}, err
	}
	return setup, nil
}

// Verify2FA submits the 6-digit enrollment code and enables 2FA.
func (c *Client) Verify2FA(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/verify-2fa", map[string]string{"code": code}, nil)
}

// Disable2FA turns 2FA off after validating a current code.
func (c *Client) Disable2FA(ctx context.Context, code string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/disable-2fa", map[string]string{"code": code}, nil)
}

// InitiatePasswordReset2FA starts the two-channel reset wizard: the server
// sends one code to the email and one to the phone, and returns the reset
// token the verify step must echo back.
func (c *Client) InitiatePasswordReset2FA(ctx context.Context, email, phone string) (string, error) {
	var payload struct {
		ResetToken string `json:"reset_token"`
	}
	body := map[string]string{"email": email, "phone": phone}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/forgot-password-2fa", body, &payload); err != nil {
		return "", err
	}
	return payload.ResetToken, nil
}

// CompletePasswordReset2FA submits both codes and the new password. The
// local checks run before any network call: a short password or a
// confirmation mismatch never leaves the machine.
func (c *Client) CompletePasswordReset2FA(ctx context.Context, resetToken, emailCode, phoneCode, newPassword, confirmPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("Password must be at least 6 characters")
	}
	if newPassword != confirmPassword {
		return errors.New("Passwords do not match")
	}
	body := map[string]string{
		"reset_token":  resetToken,
		"email_code":   emailCode,
		"phone_code":   phoneCode,
		"new_password": newPassword,
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password-2fa", body, nil)
}
