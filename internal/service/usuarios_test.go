package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

type stubUsuariosRepo struct {
	usuarios map[uuid.UUID]repo.Usuario
}

func newStubUsuariosRepo() *stubUsuariosRepo {
	return &stubUsuariosRepo{usuarios: make(map[uuid.UUID]repo.Usuario)}
}

func (s *stubUsuariosRepo) GetByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubUsuariosRepo) List(ctx context.Context, search string, limit, offset int) ([]repo.Usuario, int, error) {
	out := make([]repo.Usuario, 0, len(s.usuarios))
	for _, u := range s.usuarios {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *stubUsuariosRepo) ExistsEmail(ctx context.Context, email string, exceto uuid.UUID) (bool, error) {
	for _, u := range s.usuarios {
		if strings.EqualFold(u.Email, email) && u.ID != exceto {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUsuariosRepo) Create(ctx context.Context, input repo.CreateUsuarioInput) (repo.Usuario, error) {
	u := repo.Usuario{
		ID:        uuid.New(),
		Nome:      input.Nome,
		Email:     strings.ToLower(input.Email),
		SenhaHash: input.SenhaHash,
		PerfilID:  input.PerfilID,
		Curso:     input.Curso,
		Ativo:     true,
	}
	s.usuarios[u.ID] = u
	return u, nil
}

func (s *stubUsuariosRepo) Update(ctx context.Context, id uuid.UUID, input repo.UpdateUsuarioInput) (repo.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	if input.Nome != nil {
		u.Nome = *input.Nome
	}
	if input.Email != nil {
		u.Email = strings.ToLower(*input.Email)
	}
	if input.PerfilID != nil {
		u.PerfilID = *input.PerfilID
	}
	if input.Ativo != nil {
		u.Ativo = *input.Ativo
	}
	s.usuarios[id] = u
	return u, nil
}

func (s *stubUsuariosRepo) UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.SenhaHash = senhaHash
	s.usuarios[id] = u
	return nil
}

func (s *stubUsuariosRepo) Desativar(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	u.Ativo = false
	s.usuarios[id] = u
	return u, nil
}

type stubPerfis struct {
	perfis map[uuid.UUID]repo.Perfil
}

func (s *stubPerfis) GetByID(ctx context.Context, id uuid.UUID) (repo.Perfil, error) {
	p, ok := s.perfis[id]
	if !ok {
		return repo.Perfil{}, repo.ErrNotFound
	}
	return p, nil
}

func cenarioUsuarios() (*UsuarioService, *stubUsuariosRepo, uuid.UUID) {
	perfilID := uuid.New()
	usuarios := newStubUsuariosRepo()
	perfis := &stubPerfis{perfis: map[uuid.UUID]repo.Perfil{
		perfilID: {ID: perfilID, Nome: "Organizador", Ativo: true},
	}}
	return NewUsuarioService(usuarios, perfis), usuarios, perfilID
}

func TestCreateUsuario(t *testing.T) {
	svc, _, perfilID := cenarioUsuarios()

	u, err := svc.Create(context.Background(), CreateUsuarioInput{
		Nome:     "Ana Lima",
		Email:    "Ana@Example.com",
		Senha:    "SenhaForte123!",
		PerfilID: perfilID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %s", u.Email)
	}
	if u.SenhaHash == "SenhaForte123!" || u.SenhaHash == "" {
		t.Fatal("expected hashed password")
	}
	if ok, _ := argon2id.ComparePasswordAndHash("SenhaForte123!", u.SenhaHash); !ok {
		t.Fatal("stored hash does not verify")
	}
}

func TestCreateUsuarioEmailEmUso(t *testing.T) {
	svc, _, perfilID := cenarioUsuarios()
	ctx := context.Background()

	in := CreateUsuarioInput{Nome: "Ana Lima", Email: "ana@example.com", Senha: "SenhaForte123!", PerfilID: perfilID}
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	in.Nome = "Outra Ana"
	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrEmailEmUso) {
		t.Fatalf("expected ErrEmailEmUso, got %v", err)
	}
}

func TestCreateUsuarioPerfilInexistente(t *testing.T) {
	svc, _, _ := cenarioUsuarios()

	_, err := svc.Create(context.Background(), CreateUsuarioInput{
		Nome:     "Ana Lima",
		Email:    "ana@example.com",
		Senha:    "SenhaForte123!",
		PerfilID: uuid.New(),
	})
	if !errors.Is(err, ErrPerfilInexistente) {
		t.Fatalf("expected ErrPerfilInexistente, got %v", err)
	}
}

func TestCreateUsuarioValidacoes(t *testing.T) {
	svc, _, perfilID := cenarioUsuarios()
	ctx := context.Background()

	casos := []CreateUsuarioInput{
		{Nome: "", Email: "ana@example.com", Senha: "SenhaForte123!", PerfilID: perfilID},
		{Nome: "A", Email: "ana@example.com", Senha: "SenhaForte123!", PerfilID: perfilID},
		{Nome: "Ana", Email: "não é email", Senha: "SenhaForte123!", PerfilID: perfilID},
		{Nome: "Ana", Email: "ana@example.com", Senha: "curta", PerfilID: perfilID},
		{Nome: "Ana", Email: "ana@example.com", Senha: "12345", PerfilID: perfilID},
		{Nome: "Ana", Email: "ana@example.com", Senha: "SenhaForte123!"},
	}
	for i, in := range casos {
		_, err := svc.Create(ctx, in)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("caso %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestUpdateUsuarioBloqueiaAutoDesativacao(t *testing.T) {
	svc, repoStub, perfilID := cenarioUsuarios()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUsuarioInput{Nome: "Ana", Email: "ana@example.com", Senha: "SenhaForte123!", PerfilID: perfilID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inativo := false
	if _, err := svc.Update(ctx, u.ID, UpdateUsuarioInput{Ativo: &inativo}, u.ID); !errors.Is(err, ErrAutoDesativacao) {
		t.Fatalf("expected ErrAutoDesativacao, got %v", err)
	}
	if _, err := svc.Desativar(ctx, u.ID, u.ID); !errors.Is(err, ErrAutoDesativacao) {
		t.Fatalf("expected ErrAutoDesativacao on delete, got %v", err)
	}

	// Outro administrador pode desativar.
	desativado, err := svc.Desativar(ctx, u.ID, uuid.New())
	if err != nil {
		t.Fatalf("desativar: %v", err)
	}
	if desativado.Ativo {
		t.Fatal("expected inactive user")
	}
	if _, ok := repoStub.usuarios[u.ID]; !ok {
		t.Fatal("soft delete must keep the record")
	}
}

func TestAlterarSenha(t *testing.T) {
	svc, repoStub, perfilID := cenarioUsuarios()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUsuarioInput{Nome: "Ana", Email: "ana@example.com", Senha: "SenhaForte123!", PerfilID: perfilID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	atual := "senha-errada"
	if err := svc.AlterarSenha(ctx, u.ID, &atual, "NovaSenha456!"); !errors.Is(err, ErrSenhaAtual) {
		t.Fatalf("expected ErrSenhaAtual, got %v", err)
	}

	atual = "SenhaForte123!"
	if err := svc.AlterarSenha(ctx, u.ID, &atual, "NovaSenha456!"); err != nil {
		t.Fatalf("alterar senha: %v", err)
	}
	if ok, _ := argon2id.ComparePasswordAndHash("NovaSenha456!", repoStub.usuarios[u.ID].SenhaHash); !ok {
		t.Fatal("new password does not verify")
	}

	// Redefinição administrativa dispensa a senha atual.
	if err := svc.AlterarSenha(ctx, u.ID, nil, "OutraSenha789!"); err != nil {
		t.Fatalf("redefinir senha: %v", err)
	}
}
