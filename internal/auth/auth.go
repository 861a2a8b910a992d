package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/campushq/campus-events-api/internal/config"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TokenDuration = 24 * time.Hour
	CookieName    = "auth_token"

	RoleStudent = "student"
)

type AuthHandler struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{cfg: cfg, db: db}
}

// Principal is the authenticated caller of a request: either an admin user
// or a student, identified by a session token or an admin API key.
type Principal struct {
	Role      string
	AdminID   uint
	StudentID uint
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.AdminRoleAdmin || p.Role == models.AdminRoleSuperAdmin
}

// AuthInput carries the credentials of a request. Handlers embed it in
// their input structs and pass it to Authorize.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie"`
	APIKey string `header:"X-API-Key" doc:"Admin service key"`
}

func (h *AuthHandler) GenerateToken(subject uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize resolves the request credentials to a Principal. API keys take
// precedence over the session cookie, matching how service callers and
// browsers are expected to differ.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (*Principal, error) {
	if input.APIKey != "" {
		var keyModel models.APIKey
		if err := h.db.WithContext(ctx).Where("key = ?", input.APIKey).First(&keyModel).Error; err != nil {
			return nil, huma.Error401Unauthorized("Unauthorized: unknown API key")
		}
		if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
			return nil, huma.Error401Unauthorized("Unauthorized: API key expired")
		}
		h.db.Model(&keyModel).Update("last_used_at", time.Now())

		var admin models.AdminUser
		if err := h.db.WithContext(ctx).First(&admin, keyModel.AdminUserID).Error; err != nil {
			return nil, huma.Error401Unauthorized("Unauthorized: API key owner not found")
		}
		if !admin.Active {
			return nil, huma.Error403Forbidden("Access denied: account disabled")
		}
		return &Principal{Role: admin.Role, AdminID: admin.ID}, nil
	}

	tokenString, err := sessionCookie(input.Cookie)
	if err != nil {
		return nil, huma.Error401Unauthorized("Unauthorized: no token found")
	}
	return h.parseToken(tokenString)
}

// RequireAdmin authorizes the request and checks the admin capability
// before a mutating handler runs.
func (h *AuthHandler) RequireAdmin(ctx context.Context, input AuthInput) (*models.AdminUser, error) {
	principal, err := h.Authorize(ctx, input)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() {
		return nil, huma.Error403Forbidden("Access denied: admin role required")
	}

	var admin models.AdminUser
	if err := h.db.WithContext(ctx).First(&admin, principal.AdminID).Error; err != nil {
		return nil, huma.Error401Unauthorized("Unauthorized: admin not found")
	}
	if !admin.Active {
		return nil, huma.Error403Forbidden("Access denied: account disabled")
	}
	return &admin, nil
}

func (h *AuthHandler) parseToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, huma.Error401Unauthorized("Unauthorized: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	subject, ok := claims["sub"].(float64)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}

	principal := &Principal{Role: role}
	if role == RoleStudent {
		principal.StudentID = uint(subject)
	} else {
		principal.AdminID = uint(subject)
	}
	return principal, nil
}

// sessionCookie extracts the auth token from a raw Cookie header.
func sessionCookie(cookieHeader string) (string, error) {
	if cookieHeader == "" {
		return "", http.ErrNoCookie
	}
	req := http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// SessionCookie formats a Set-Cookie value for a freshly issued token.
func SessionCookie(token string) string {
	cookie := http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
	return cookie.String()
}
