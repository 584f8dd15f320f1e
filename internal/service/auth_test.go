package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/auth"
	"github.com/gestaoseminario/api/internal/repo"
)

type stubUsuariosAuth struct {
	usuario        repo.Usuario
	autenticado    repo.UsuarioAutenticado
	loginMomento   time.Time
	loginExpiracao time.Time
	tokenExpirado  *time.Time
}

func (s *stubUsuariosAuth) GetByEmail(ctx context.Context, email string) (repo.Usuario, error) {
	if strings.EqualFold(email, s.usuario.Email) {
		return s.usuario, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *stubUsuariosAuth) GetAutenticado(ctx context.Context, id uuid.UUID) (repo.UsuarioAutenticado, error) {
	if id != s.usuario.ID {
		return repo.UsuarioAutenticado{}, repo.ErrNotFound
	}
	return s.autenticado, nil
}

func (s *stubUsuariosAuth) RegistrarLogin(ctx context.Context, id uuid.UUID, momento, expiracao time.Time) error {
	s.loginMomento = momento
	s.loginExpiracao = expiracao
	return nil
}

func (s *stubUsuariosAuth) ExpirarToken(ctx context.Context, id uuid.UUID, momento time.Time) error {
	s.tokenExpirado = &momento
	return nil
}

type stubSessoes struct {
	guardadas map[uuid.UUID]time.Time
	falha     error
}

func (s *stubSessoes) Guardar(ctx context.Context, userID uuid.UUID, expiraEm time.Time) error {
	if s.falha != nil {
		return s.falha
	}
	if s.guardadas == nil {
		s.guardadas = make(map[uuid.UUID]time.Time)
	}
	s.guardadas[userID] = expiraEm
	return nil
}

func (s *stubSessoes) Remover(ctx context.Context, userID uuid.UUID) error {
	if s.falha != nil {
		return s.falha
	}
	delete(s.guardadas, userID)
	return nil
}

func novoStubUsuario(t *testing.T, senha string, ativo bool) *stubUsuariosAuth {
	t.Helper()
	hash, err := argon2id.CreateHash(senha, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id := uuid.New()
	return &stubUsuariosAuth{
		usuario: repo.Usuario{
			ID:        id,
			Nome:      "Ana Lima",
			Email:     "ana@example.com",
			SenhaHash: hash,
			Ativo:     ativo,
		},
		autenticado: repo.UsuarioAutenticado{
			ID:         id,
			Nome:       "Ana Lima",
			Email:      "ana@example.com",
			Ativo:      ativo,
			PerfilNome: "Organizador",
		},
	}
}

func TestLogin(t *testing.T) {
	senha := "SenhaForte123!"
	usuarios := novoStubUsuario(t, senha, true)
	sessoes := &stubSessoes{}
	tokens := auth.NewTokenManager(strings.Repeat("s", 32), 2*time.Hour)
	svc := NewAuthService(usuarios, tokens, sessoes)

	out, err := svc.Login(context.Background(), "ana@example.com", senha)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Token == "" {
		t.Fatal("expected token")
	}
	if out.Usuario.PerfilNome != "Organizador" {
		t.Fatalf("unexpected user payload: %+v", out.Usuario)
	}

	claims, err := tokens.Parse(out.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != usuarios.usuario.ID.String() {
		t.Fatalf("token subject mismatch: %s", claims.Subject)
	}

	if !usuarios.loginExpiracao.Equal(out.ExpiraEm) {
		t.Fatalf("login window not persisted: %v != %v", usuarios.loginExpiracao, out.ExpiraEm)
	}
	if exp, ok := sessoes.guardadas[usuarios.usuario.ID]; !ok || !exp.Equal(out.ExpiraEm) {
		t.Fatalf("session not mirrored: %v", sessoes.guardadas)
	}
}

func TestLoginCredenciaisInvalidas(t *testing.T) {
	usuarios := novoStubUsuario(t, "SenhaForte123!", true)
	tokens := auth.NewTokenManager(strings.Repeat("s", 32), time.Hour)
	svc := NewAuthService(usuarios, tokens, nil)
	ctx := context.Background()

	casos := []struct {
		nome  string
		email string
		senha string
	}{
		{"email desconhecido", "ninguem@example.com", "SenhaForte123!"},
		{"senha errada", "ana@example.com", "outra-senha"},
	}
	for _, caso := range casos {
		if _, err := svc.Login(ctx, caso.email, caso.senha); !errors.Is(err, ErrCredenciaisInvalidas) {
			t.Fatalf("%s: expected ErrCredenciaisInvalidas, got %v", caso.nome, err)
		}
	}
}

func TestLoginUsuarioInativo(t *testing.T) {
	usuarios := novoStubUsuario(t, "SenhaForte123!", false)
	tokens := auth.NewTokenManager(strings.Repeat("s", 32), time.Hour)
	svc := NewAuthService(usuarios, tokens, nil)

	if _, err := svc.Login(context.Background(), "ana@example.com", "SenhaForte123!"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("expected ErrCredenciaisInvalidas, got %v", err)
	}
}

func TestLoginSemRedisNaoFalha(t *testing.T) {
	senha := "SenhaForte123!"
	usuarios := novoStubUsuario(t, senha, true)
	tokens := auth.NewTokenManager(strings.Repeat("s", 32), time.Hour)
	svc := NewAuthService(usuarios, tokens, nil)

	if _, err := svc.Login(context.Background(), "ana@example.com", senha); err != nil {
		t.Fatalf("login without redis: %v", err)
	}
}

func TestLoginRedisIndisponivelNaoBloqueia(t *testing.T) {
	senha := "SenhaForte123!"
	usuarios := novoStubUsuario(t, senha, true)
	sessoes := &stubSessoes{falha: errors.New("connection refused")}
	tokens := auth.NewTokenManager(strings.Repeat("s", 32), time.Hour)
	svc := NewAuthService(usuarios, tokens, sessoes)

	if _, err := svc.Login(context.Background(), "ana@example.com", senha); err != nil {
		t.Fatalf("login with failing redis: %v", err)
	}
}

func TestLogoutEncerraSessao(t *testing.T) {
	usuarios := novoStubUsuario(t, "SenhaForte123!", true)
	sessoes := &stubSessoes{guardadas: map[uuid.UUID]time.Time{
		usuarios.usuario.ID: time.Now().Add(time.Hour),
	}}
	tokens := auth.NewTokenManager(strings.Repeat("s", 32), time.Hour)
	svc := NewAuthService(usuarios, tokens, sessoes)

	if err := svc.Logout(context.Background(), usuarios.usuario.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if usuarios.tokenExpirado == nil || !usuarios.tokenExpirado.Before(time.Now()) {
		t.Fatalf("expected past expiry persisted, got %v", usuarios.tokenExpirado)
	}
	if _, ok := sessoes.guardadas[usuarios.usuario.ID]; ok {
		t.Fatal("session not removed from cache")
	}
}
