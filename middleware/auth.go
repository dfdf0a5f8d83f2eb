package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"food-delivery-admin-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	AccountID uint        `json:"account_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWT signs and verifies HS256 bearer tokens.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock swaps the time source used for issuing and expiry checks.
func (j *JWT) WithClock(now func() time.Time) *JWT {
	cp := *j
	cp.now = now
	return &cp
}

// GenerateToken creates a signed token for an account and returns its expiry.
func (j *JWT) GenerateToken(acc *models.Account) (string, time.Time, error) {
	now := j.now()
	exp := now.Add(j.ttl)
	claims := Claims{
		AccountID: acc.ID,
		Email:     acc.Email,
		Role:      acc.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	return signed, exp, err
}

var errBadToken = errors.New("invalid token")

func (j *JWT) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.AccountID == 0 {
		return nil, errBadToken
	}
	return claims, nil
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// AuthRequired validates the bearer token and injects its claims into the context.
// The account itself is not loaded.
func (j *JWT) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if j.authenticate(c, false) {
			c.Next()
		}
	}
}

// OptionalAuth lets requests without an Authorization header through
// anonymously. A header that is present must still carry a valid token.
func (j *JWT) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if j.authenticate(c, true) {
			c.Next()
		}
	}
}

func (j *JWT) authenticate(c *gin.Context, optional bool) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" && optional {
		return true
	}
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		abort(c, http.StatusUnauthorized, "Authorization header required (Bearer <token>)")
		return false
	}
	claims, err := j.Parse(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token expired"
		}
		abort(c, http.StatusUnauthorized, msg)
		return false
	}
	c.Set("accountID", claims.AccountID)
	c.Set("email", claims.Email)
	c.Set("role", string(claims.Role))
	return true
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRole := GetRole(c)
		if callerRole == "" {
			abort(c, http.StatusForbidden, "Role not found in context")
			return
		}
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Access denied. Required role(s): "+rolesString(roles))
	}
}

func AdminRequired() gin.HandlerFunc {
	return RoleRequired(models.RoleAdmin)
}

func rolesString(roles []models.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// GetAccountID extracts the caller's account ID, 0 when unauthenticated.
func GetAccountID(c *gin.Context) uint {
	return c.GetUint("accountID")
}

func GetRole(c *gin.Context) models.Role {
	return models.Role(c.GetString("role"))
}
