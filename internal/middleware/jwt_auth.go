package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"marketadmin/internal/model"
)

// ==================== JWT config ====================

// JWTConfig signing settings for the sandbox API
type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// DefaultJWTConfig development defaults
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "marketadmin-sandbox-secret-change-me",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "marketadmin-sandbox",
	}
}

const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// ==================== Claims ====================

// UserClaims what the sandbox embeds into each token
type UserClaims struct {
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	Role       model.Role `json:"role"`
	BusinessID int64      `json:"business"`
	jwt.RegisteredClaims
}

// ==================== TokenIssuer ====================

// TokenIssuer signs and verifies HS256 token pairs
type TokenIssuer struct {
	cfg *JWTConfig
}

// NewTokenIssuer falls back to DefaultJWTConfig for a nil config and fills an empty secret
func NewTokenIssuer(cfg *JWTConfig) *TokenIssuer {
	def := DefaultJWTConfig()
	if cfg == nil {
		cfg = def
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = def.SecretKey
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = def.AccessTokenTTL
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = def.RefreshTokenTTL
	}
	return &TokenIssuer{cfg: cfg}
}

func (t *TokenIssuer) sign(u *model.User, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID:     u.ID,
		Username:   u.Username,
		Role:       u.Role,
		BusinessID: u.BusinessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.cfg.SecretKey))
}

// GenerateTokenPair access + refresh token for u
func (t *TokenIssuer) GenerateTokenPair(u *model.User) (accessToken, refreshToken string, err error) {
	accessToken, err = t.sign(u, subjectAccess, t.cfg.AccessTokenTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = t.sign(u, subjectRefresh, t.cfg.RefreshTokenTTL)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseToken verifies signature and expiry
func (t *TokenIssuer) ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(t.cfg.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// TokenExpiry reads "exp" without verifying the signature; the console cannot know the server's key
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// ==================== Gin middleware ====================

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
	ContextKeyBusiness = "business"
	ContextKeyClaims   = "claims"
)

// abortDetail answers with the {"detail": ".."} body the console understands
func abortDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// JWTAuth requires a valid access token
func JWTAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortDetail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortDetail(c, http.StatusUnauthorized, "Authorization header must be 'Bearer <token>'.")
			return
		}

		claims, err := issuer.ParseToken(parts[1])
		if err != nil {
			abortDetail(c, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}

		if claims.Subject != subjectAccess {
			abortDetail(c, http.StatusUnauthorized, "Token has wrong type")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyBusiness, claims.BusinessID)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// RequireRole lets only the listed roles through; runs after JWTAuth
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyRole)
		if !exists {
			abortDetail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		userRole := role.(model.Role)
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		abortDetail(c, http.StatusForbidden, "You do not have permission to perform this action.")
	}
}

// ==================== Helpers ====================

func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		return name.(string)
	}
	return ""
}

func GetUserRole(c *gin.Context) model.Role {
	if role, exists := c.Get(ContextKeyRole); exists {
		return role.(model.Role)
	}
	return ""
}

func GetBusinessID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyBusiness); exists {
		return id.(int64)
	}
	return 0
}

// GetUserClaims full claims, nil before JWTAuth ran
func GetUserClaims(c *gin.Context) *UserClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*UserClaims)
	}
	return nil
}
