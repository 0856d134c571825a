package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusvault/CampusVault/internal/services"
)

func RegisterHandler(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := services.RegisterUser(request.Email, request.Password, request.FullName)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "User registered successfully, check your email to verify the account", "user": user})
}

func VerifyEmailHandler(c *fiber.Ctx) error {
	var request struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&request); err != nil {
		request.Token = c.Query("token")
	}
	if request.Token == "" {
		request.Token = c.Query("token")
	}
	if err := services.VerifyEmail(request.Token); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

func LoginHandler(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totp_code"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, user, err := services.LoginUser(request.Email, request.Password, request.TOTPCode)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"token": token, "user": user})
}

// LogoutHandler acknowledges a logout. Tokens are stateless; the client
// drops its stored token and user record regardless of this response.
func LogoutHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func MeHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	user, err := services.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(user)
}

func UpdateProfileHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var request services.ProfileUpdate
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := services.UpdateProfile(userID, request)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "user": user})
}

func RefreshTokenHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	token, err := services.RefreshToken(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"token": token})
}

func ForgotPasswordHandler(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	services.ForgotPassword(request.Email)
	// Same response whether or not the email exists.
	return c.JSON(fiber.Map{"message": "If that email is registered, a reset link is on its way"})
}

func ResetPasswordHandler(c *fiber.Ctx) error {
	var request struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := services.ResetPassword(request.Token, request.NewPassword); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

func Setup2FAHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	setup, err := services.Setup2FA(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(setup)
}

func Verify2FAHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var request struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := services.Verify2FA(userID, request.Code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "2FA enabled"})
}

func Disable2FAHandler(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var request struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := services.Disable2FA(userID, request.Code); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "2FA disabled"})
}

func ForgotPassword2FAHandler(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	resetToken, err := services.ForgotPassword2FA(request.Email, request.Phone)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message":     "Verification codes sent to your email and phone",
		"reset_token": resetToken,
	})
}

func ResetPassword2FAHandler(c *fiber.Ctx) error {
	var request struct {
		ResetToken  string `json:"reset_token"`
		EmailCode   string `json:"email_code"`
		PhoneCode   string `json:"phone_code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := services.ResetPassword2FA(request.ResetToken, request.EmailCode, request.PhoneCode, request.NewPassword); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
