package middleware

import (
	"errors"
	"strings"

	"go-hrpay/internal/shared/apperror"
	"go-hrpay/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload of an access token. Tokens are issued elsewhere.
type AccessClaims struct {
	UserID     string `json:"user_id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// missingClaim names the first empty identity claim, or "" when all are set.
func (c *AccessClaims) missingClaim() string {
	switch {
	case c.UserID == "":
		return "User ID not found in token"
	case c.CompanyID == "":
		return "Company ID not found in token"
	case c.EmployeeID == "":
		return "Employee ID not found in token"
	}
	return ""
}

func bearerOrCookie(c *gin.Context) string {
	if tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && tok != "" {
		return tok
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware verifies an HS256 access token signed with secret, taken
// from the bearer header or the access_token cookie, and copies its claims
// into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		raw := bearerOrCookie(c)
		if raw == "" {
			abortWith(c, apperror.ErrTokenNotFound, "")
			return
		}

		claims := &AccessClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return key, nil })
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			abortWith(c, apperror.ErrTokenExpired, "")
			return
		case err != nil:
			abortWith(c, apperror.ErrInvalidToken, "")
			return
		}
		if msg := claims.missingClaim(); msg != "" {
			abortWith(c, apperror.ErrInvalidToken, msg)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("company_id", claims.CompanyID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

func abortWith(c *gin.Context, errObj *apperror.AppError, message string) {
	if message == "" {
		message = errObj.Message
	}
	response.Error(c, errObj.HTTPStatus, errObj.Code, message, nil)
	c.Abort()
}

