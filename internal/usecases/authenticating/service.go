package authenticating

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
	"github.com/vfg2006/realestate-crm-analytics/pkg/apiErrors"
)

const defaultTokenTTL = 24 * time.Hour

// Authenticator valida os tokens emitidos pelo CRM para acesso aos relatórios
type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{
		secret: []byte(cfg.Auth.Secret),
		now:    time.Now,
	}
}

// GenerateToken assina as claims com HS256; sem expiração informada vale por 24h.
// Os tokens de produção são emitidos pelo CRM, aqui só serve para ferramentas e testes
func (s *Service) GenerateToken(claims domain.Claims) (string, error) {
	if err := validateClaims(&claims); err != nil {
		return "", err
	}

	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(s.now().Add(defaultTokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	if err := validateClaims(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func validateClaims(claims *domain.Claims) error {
	if claims.TenantID == "" {
		return NewAuthError(ErrMissingTenant, apiErrors.ErrInvalidToken, "")
	}

	switch claims.UserRoleID {
	case domain.RoleAdmin, domain.RoleManager:
	case domain.RoleConsultant:
		if claims.ConsultantID == "" {
			return NewAuthError(ErrMissingSubject, apiErrors.ErrInvalidToken, "")
		}
	default:
		return NewAuthError(ErrInvalidRole, apiErrors.ErrInvalidToken, fmt.Sprintf("role_id=%d", claims.UserRoleID))
	}

	return nil
}
