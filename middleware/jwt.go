package middleware

import (
	"fmt"
	"strings"
	"time"

	"courseplatform/config"
	"courseplatform/database"
	"courseplatform/models"
	"courseplatform/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const requesterKey = "requester"

// GenerateJWT generates a JWT token for the user
func GenerateJWT(userID uint, name, email string, staff bool) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"email":  email,
		"staff":  staff,
		"iat":    time.Now().Unix(),                     // issued at
		"exp":    time.Now().Add(24 * time.Hour).Unix(), // expiry 24h
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// authenticate resolves the bearer token into a user. The staff flag is read
// from the database so revoking it takes effect before the token expires.
func authenticate(c *fiber.Ctx) (*models.User, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, "Missing or invalid Authorization header"
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, "Invalid Authorization header format"
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, "Invalid token payload"
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return nil, "Invalid token payload"
	}

	var user models.User
	if err := database.Database.Db.First(&user, uint(userID)).Error; err != nil {
		return nil, "User not found!"
	}
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(time.Now()) {
		return nil, "Your account is temporarily blocked. Try again later."
	}
	return &user, ""
}

func setRequester(c *fiber.Ctx, user *models.User) {
	c.Locals("userId", user.ID)
	c.Locals(requesterKey, policy.Requester{UserID: user.ID, Staff: user.IsStaff})
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	user, reason := authenticate(c)
	if user == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, reason, nil)
	}
	setRequester(c, user)
	return c.Next()
}

// OptionalJWTMiddleware sets the requester when a valid token is sent and
// continues anonymously otherwise.
func OptionalJWTMiddleware(c *fiber.Ctx) error {
	if c.Get("Authorization") != "" {
		if user, _ := authenticate(c); user != nil {
			setRequester(c, user)
		}
	}
	return c.Next()
}

// StaffOnly rejects authenticated requesters without the staff flag.
func StaffOnly(c *fiber.Ctx) error {
	if !CurrentRequester(c).Staff {
		return JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Staff only.", nil)
	}
	return c.Next()
}

// CurrentRequester returns the requester set by the JWT middlewares, or an
// anonymous one.
func CurrentRequester(c *fiber.Ctx) policy.Requester {
	if r, ok := c.Locals(requesterKey).(policy.Requester); ok {
		return r
	}
	return policy.Anonymous()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
