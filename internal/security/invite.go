package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInviteTokenInvalid = errors.New("invitation token is invalid")
	ErrInviteTokenExpired = errors.New("invitation token has expired")
)

// InviteClaims are the claims carried by a signed invitation token. The
// invitation row id is the JWT ID so redemption can mark the row used.
type InviteClaims struct {
	FamilyID string `json:"family_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// InviteSigner signs and verifies single-family invitation tokens with
// HMAC-SHA256.
type InviteSigner struct {
	secret []byte
}

// NewInviteSigner creates a signer from the configured secret.
func NewInviteSigner(secret string) *InviteSigner {
	return &InviteSigner{secret: []byte(secret)}
}

// Sign creates a token inviting email into familyID, valid until expiresAt.
func (s *InviteSigner) Sign(invitationID, familyID, email string, expiresAt time.Time) (string, error) {
	claims := InviteClaims{
		FamilyID: familyID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        invitationID,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign invitation token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *InviteSigner) Verify(tokenString string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrInviteTokenExpired
		}
		return nil, ErrInviteTokenInvalid
	}
	if !token.Valid || claims.FamilyID == "" || claims.ID == "" {
		return nil, ErrInviteTokenInvalid
	}
	return claims, nil
}
