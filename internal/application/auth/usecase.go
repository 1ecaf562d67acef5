package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/items-grid/internal/application/dto"
	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Client credenciales de un cliente del recurso /items. SecretHash es bcrypt.
type Client struct {
	ID         string
	SecretHash string
}

// AuthUseCase emite tokens a clientes registrados (client credentials).
type AuthUseCase struct {
	clients map[string]string
	jwtCfg  JWTConfig
}

// NewAuthUseCase construye el caso de uso. Los clientes sin ID o sin hash se ignoran.
func NewAuthUseCase(jwtCfg JWTConfig, clients ...Client) *AuthUseCase {
	m := make(map[string]string, len(clients))
	for _, c := range clients {
		if c.ID != "" && c.SecretHash != "" {
			m[c.ID] = c.SecretHash
		}
	}
	return &AuthUseCase{clients: m, jwtCfg: jwtCfg}
}

// Enabled indica si hay al menos un cliente registrado.
func (uc *AuthUseCase) Enabled() bool { return len(uc.clients) > 0 }

// Token verifica client_id/client_secret y genera el JWT.
func (uc *AuthUseCase) Token(in dto.TokenRequest) (*dto.TokenResponse, error) {
	hash, ok := uc.clients[in.ClientID]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.ClientSecret)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, in.ClientID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		Scope:     jwt.ScopeItems,
	}, nil
}

// HashSecret genera el hash bcrypt de un secreto de cliente (para JWT_CLIENT_SECRET_HASH).
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
