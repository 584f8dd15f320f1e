package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalido é retornado para tokens malformados ou adulterados.
	ErrTokenInvalido = errors.New("token inválido")
	// ErrTokenExpirado é retornado quando a validade padrão do token passou.
	ErrTokenExpirado = errors.New("token expirado")
)

// Claims representa as informações presentes em um token de acesso.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager encapsula geração e validação de tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager cria o gerenciador com segredo e validade configurados.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL devolve a janela de validade configurada.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate cria um JWT HS256 vinculando usuário e email.
func (m *TokenManager) Generate(userID, email string) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(m.ttl)

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expires, nil
}

// Parse verifica assinatura e expiração, distinguindo token expirado de inválido.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpirado
		}
		return nil, ErrTokenInvalido
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalido
	}

	return claims, nil
}
