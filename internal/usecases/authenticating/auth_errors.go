package authenticating

import (
	"errors"
	"fmt"
)

// Tipos de erros de autenticação
var (
	ErrInvalidToken   = errors.New("token inválido")
	ErrExpiredToken   = errors.New("token expirado")
	ErrMissingTenant  = errors.New("token sem tenant")
	ErrInvalidRole    = errors.New("perfil de acesso inválido")
	ErrMissingSubject = errors.New("consultor sem identificação no token")
)

// AuthError é um erro com contexto adicional para autenticação
type AuthError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsExpired indica token vencido
func IsExpired(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}

// NewAuthError cria um novo AuthError
func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
