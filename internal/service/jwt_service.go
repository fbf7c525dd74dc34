package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SimpnicServerTeam/scs-blog-server/internal/models"
)

var _ TokenGenerator = (*JWTService)(nil)

// JWTService signs HS256 access tokens carrying the user id and session id.
type JWTService struct {
	jwtSecret []byte
	issuer    string
	duration  time.Duration
	now       func() time.Time
}

// NewJWTService creates a JWTService
func NewJWTService(secret, issuer string, duration time.Duration) *JWTService {
	return &JWTService{
		jwtSecret: []byte(secret),
		issuer:    issuer,
		duration:  duration,
		now:       time.Now,
	}
}

// GenerateToken creates a new JWT for a user session
func (s *JWTService) GenerateToken(userID int64, sessionID string) (string, time.Time, error) {
	if userID <= 0 || sessionID == "" {
		return "", time.Time{}, errors.New("user id and session id are required")
	}

	now := s.now()
	exp := now.Add(s.duration)
	claims := models.NewClaims(userID, sessionID, s.issuer, now, exp)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, exp, nil
}

// ValidateToken parses the token, checks the signature, issuer and expiry, and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("invalid token claims: missing session id")
	}
	return claims, nil
}
