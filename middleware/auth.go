package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"souq-delivery-api/models"
)

type Claims struct {
	UserID      string              `json:"user_id"`
	Name        string              `json:"name"`
	Role        models.UserRole     `json:"role"`
	Permissions []models.Permission `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Auth issues and validates the JWT session tokens. Constructed once at
// startup with the signing secret and injected where needed.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// GenerateToken creates a signed JWT for a given user. The user's
// capabilities ride in the claims so permission checks need no lookup.
func (a *Auth) GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:      user.ID,
		Name:        user.Name,
		Role:        user.Role,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// AuthRequired validates the JWT and injects the caller into the context
func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		caller := &models.User{
			ID:          claims.UserID,
			Name:        claims.Name,
			Role:        claims.Role,
			Permissions: claims.Permissions,
		}
		c.Set("caller", caller)
		c.Next()
	}
}

// RoleRequired enforces that the caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller(c)
		if caller == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Caller not found in context"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

// PermissionRequired enforces a capability. Admins pass unconditionally;
// other roles need the permission in their claims. This is what lets staff
// accounts share admin surfaces one capability at a time.
func PermissionRequired(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller(c)
		if caller == nil || !caller.HasPermission(perm) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied. Required permission: " + string(perm),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// Caller extracts the authenticated user from the context
func Caller(c *gin.Context) *models.User {
	val, ok := c.Get("caller")
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}
