package authenticating

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/realestate-crm-analytics/internal/config"
	"github.com/vfg2006/realestate-crm-analytics/internal/domain"
)

func newTestService(now time.Time) *Service {
	svc := NewService(&config.Config{Auth: config.Auth{Secret: "segredo-de-teste"}}).(*Service)
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_GenerateAndValidateToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(now)

	token, err := svc.GenerateToken(domain.Claims{
		TenantID:     "imob-1",
		ConsultantID: "c-1",
		UserName:     "Ana",
		UserRoleID:   domain.RoleConsultant,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "imob-1", claims.TenantID)
	assert.Equal(t, "c-1", claims.ConsultantID)
	assert.True(t, claims.IsConsultant())
	assert.Equal(t, now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestService_ValidateToken_Erros(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(now)

	expired, err := svc.GenerateToken(domain.Claims{
		TenantID:   "imob-1",
		UserRoleID: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	})
	require.NoError(t, err)

	otherSecret := NewService(&config.Config{Auth: config.Auth{Secret: "outro"}}).(*Service)
	foreign, err := otherSecret.GenerateToken(domain.Claims{TenantID: "imob-1", UserRoleID: domain.RoleAdmin})
	require.NoError(t, err)

	noTenant, err := jwt.NewWithClaims(jwt.SigningMethodHS256, domain.Claims{UserRoleID: domain.RoleAdmin}).
		SignedString([]byte("segredo-de-teste"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		err   error
	}{
		{name: "token expirado", token: expired, err: ErrExpiredToken},
		{name: "assinatura de outro segredo", token: foreign, err: ErrInvalidToken},
		{name: "token malformado", token: "abc.def", err: ErrInvalidToken},
		{name: "token sem tenant", token: noTenant, err: ErrMissingTenant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, tt.err), "erro inesperado: %v", err)
		})
	}
}

func TestService_GenerateToken_ClaimsInvalidas(t *testing.T) {
	svc := newTestService(time.Now())

	_, err := svc.GenerateToken(domain.Claims{TenantID: "imob-1", UserRoleID: domain.RoleConsultant})
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = svc.GenerateToken(domain.Claims{TenantID: "imob-1", UserRoleID: 9})
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.False(t, IsExpired(err))
}

func TestAuthenticator_ApenasValidaTokens(t *testing.T) {
	iface := reflect.TypeOf((*Authenticator)(nil)).Elem()

	assert.Equal(t, 1, iface.NumMethod())
	_, exposesGenerate := iface.MethodByName("GenerateToken")
	assert.False(t, exposesGenerate)
}
