package domain

import "github.com/golang-jwt/jwt/v5"

// Perfis de acesso aos relatórios
const (
	RoleAdmin      = 1
	RoleManager    = 2
	RoleConsultant = 3
)

// Claims são os dados do usuário autenticado carregados no token
type Claims struct {
	TenantID     string `json:"tenant_id"`
	ConsultantID string `json:"consultant_id"`
	UserName     string `json:"name"`
	UserRoleID   int    `json:"role_id"`
	jwt.RegisteredClaims
}

// IsConsultant indica usuário restrito aos próprios registros
func (c *Claims) IsConsultant() bool {
	return c.UserRoleID == RoleConsultant
}
