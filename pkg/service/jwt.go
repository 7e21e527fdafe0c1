package service

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "service-order/pkg/errors"
)

type JwtCustomClaim struct {
	UserID         uint64 `json:"userId"`
	IsRefreshToken bool   `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

// JWTService проверяет токены, выпущенные сервисом авторизации.
// GenerateAccessToken нужен для тестов и служебных клиентов.
type JWTService interface {
	GenerateAccessToken(userID uint64, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
}

type jwtService struct {
	secretKey string
}

func NewJWTService(secretKey string) JWTService {
	return &jwtService{secretKey: secretKey}
}

func (s *jwtService) GenerateAccessToken(userID uint64, ttl time.Duration) (string, error) {
	claims := &JwtCustomClaim{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		if errors.Is(err, apperrors.ErrInvalidSigningMethod) {
			return nil, apperrors.ErrInvalidSigningMethod
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
