package directory

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InviteService issues signed invite links that grant a role on the workspace.
type InviteService struct {
	secretKey []byte
	baseURL   string

	// InviteDuration controls token expiry. Default: 7 days.
	InviteDuration time.Duration

	now func() time.Time
}

// InviteClaims are the claims embedded in an invite token.
type InviteClaims struct {
	InvitedByID string `json:"invited_by_id"`
	InvitedBy   string `json:"invited_by"`
	GrantedRole Role   `json:"granted_role"`
	jwt.RegisteredClaims
}

// NewInviteService creates an invite service. baseURL is the public app URL
// the invite path is appended to, e.g. "https://app.eonix.io".
func NewInviteService(secretKey, baseURL string) *InviteService {
	return &InviteService{
		secretKey:      []byte(secretKey),
		baseURL:        baseURL,
		InviteDuration: 7 * 24 * time.Hour,
		now:            time.Now,
	}
}

// GenerateInviteLink signs an invite token on behalf of inviter and returns
// the full shareable link.
func (s *InviteService) GenerateInviteLink(inviter Member, granted Role) (string, error) {
	now := s.now()
	claims := InviteClaims{
		InvitedByID: inviter.ID,
		InvitedBy:   inviter.Name,
		GrantedRole: granted,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "eonix-collab",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.InviteDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign invite token: %w", err)
	}
	return fmt.Sprintf("%s/invite/%s", s.baseURL, signed), nil
}

// ParseInviteToken validates a raw invite token and returns its claims.
func (s *InviteService) ParseInviteToken(raw string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &InviteClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, fmt.Errorf("invalid invite token: %w", err)
	}
	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid invite token")
	}
	return claims, nil
}
