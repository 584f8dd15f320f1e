package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionRedisKey monta a chave que espelha a janela de validade da sessão.
// O valor autoritativo fica em usuarios.token_expiracao; o Redis é apenas o
// caminho rápido consultado a cada requisição autenticada.
func SessionRedisKey(userID string) string {
	return fmt.Sprintf("sessao:%s", userID)
}

// FormatSessionExpiry serializa o instante de expiração gravado no Redis.
func FormatSessionExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseSessionExpiry lê o instante gravado por FormatSessionExpiry.
func ParseSessionExpiry(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

// SessionStore espelha janelas de sessão no Redis. Falhas aqui nunca
// derrubam o login: o registro do usuário continua valendo sozinho.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Guardar grava a expiração com TTL igual ao restante da janela.
func (s *SessionStore) Guardar(ctx context.Context, userID uuid.UUID, expiraEm time.Time) error {
	ttl := time.Until(expiraEm)
	if ttl <= 0 {
		return s.Remover(ctx, userID)
	}
	return s.client.Set(ctx, SessionRedisKey(userID.String()), FormatSessionExpiry(expiraEm), ttl).Err()
}

// Expiracao consulta a janela espelhada; ok=false quando a chave não existe.
func (s *SessionStore) Expiracao(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, SessionRedisKey(userID.String())).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	exp, err := ParseSessionExpiry(raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return exp, true, nil
}

// Remover apaga o espelho; usado no logout.
func (s *SessionStore) Remover(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, SessionRedisKey(userID.String())).Err()
}
