package curso

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

type stubRepo struct {
	cursos     map[string]Curso
	createErr  error
	existentes []string
}

func newStubRepo() *stubRepo {
	return &stubRepo{cursos: make(map[string]Curso)}
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (Curso, error) {
	for _, c := range s.cursos {
		if c.ID == id {
			return c, nil
		}
	}
	return Curso{}, repo.ErrNotFound
}

func (s *stubRepo) List(ctx context.Context, search string, limit, offset int) ([]Curso, int, error) {
	out := make([]Curso, 0, len(s.cursos))
	for _, c := range s.cursos {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (s *stubRepo) ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error) {
	c, ok := s.cursos[cod]
	return ok && c.ID != exceto, nil
}

func (s *stubRepo) CodigosComPrefixo(ctx context.Context, prefixo string) ([]string, error) {
	out := append([]string(nil), s.existentes...)
	for cod := range s.cursos {
		out = append(out, cod)
	}
	return out, nil
}

func (s *stubRepo) Create(ctx context.Context, cod, nome string, descricao *string) (Curso, error) {
	if s.createErr != nil {
		return Curso{}, s.createErr
	}
	if _, ok := s.cursos[cod]; ok {
		return Curso{}, repo.ErrConflito
	}
	c := Curso{ID: uuid.New(), Cod: cod, Nome: nome, Descricao: descricao, Ativo: true}
	s.cursos[cod] = c
	return c, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Curso, error) {
	for cod, c := range s.cursos {
		if c.ID == id {
			if in.Nome != nil {
				c.Nome = *in.Nome
			}
			if in.Cod != nil {
				delete(s.cursos, cod)
				c.Cod = *in.Cod
			}
			s.cursos[c.Cod] = c
			return c, nil
		}
	}
	return Curso{}, repo.ErrNotFound
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for cod, c := range s.cursos {
		if c.ID == id {
			delete(s.cursos, cod)
			return nil
		}
	}
	return repo.ErrNotFound
}

func TestCreateGeraCodigoSequencial(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	primeiro, err := svc.Create(ctx, CreateInput{Nome: "Engenharia"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if primeiro.Cod != "ENG001" {
		t.Fatalf("expected ENG001, got %s", primeiro.Cod)
	}

	segundo, err := svc.Create(ctx, CreateInput{Nome: "Engenharia"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if segundo.Cod != "ENG002" {
		t.Fatalf("expected ENG002, got %s", segundo.Cod)
	}
}

func TestCreateNomeComposto(t *testing.T) {
	svc := NewService(newStubRepo())

	c, err := svc.Create(context.Background(), CreateInput{Nome: "Engenharia Civil"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Iniciais das duas palavras completadas com a segunda letra da primeira.
	if c.Cod != "ECN001" {
		t.Fatalf("expected ECN001, got %s", c.Cod)
	}
}

func TestCreateNomeAcentuado(t *testing.T) {
	svc := NewService(newStubRepo())

	c, err := svc.Create(context.Background(), CreateInput{Nome: "Água"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Cod != "AGU001" {
		t.Fatalf("expected AGU001, got %s", c.Cod)
	}
}

func TestCreateNomeCurtoFalha(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.Create(context.Background(), CreateInput{Nome: "Ed"})
	if !errors.Is(err, ErrNomeInsuficiente) {
		t.Fatalf("expected ErrNomeInsuficiente, got %v", err)
	}

	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestCreateSequenciaEsgotada(t *testing.T) {
	stub := newStubRepo()
	for n := 1; n <= 999; n++ {
		stub.existentes = append(stub.existentes, fmt.Sprintf("ENG%03d", n))
	}
	svc := NewService(stub)

	_, err := svc.Create(context.Background(), CreateInput{Nome: "Engenharia"})
	if !errors.Is(err, ErrCodigosEsgotados) {
		t.Fatalf("expected ErrCodigosEsgotados, got %v", err)
	}
}

func TestCreateCodigoInformadoDuplicado(t *testing.T) {
	stub := newStubRepo()
	svc := NewService(stub)
	ctx := context.Background()

	cod := "ENG001"
	if _, err := svc.Create(ctx, CreateInput{Nome: "Engenharia", Cod: &cod}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, CreateInput{Nome: "Outro Nome Qualquer", Cod: &cod})
	if !errors.Is(err, ErrCodigoEmUso) {
		t.Fatalf("expected ErrCodigoEmUso, got %v", err)
	}
}

func TestCreateCodigoInformadoNormalizado(t *testing.T) {
	svc := NewService(newStubRepo())

	cod := "  eng010  "
	c, err := svc.Create(context.Background(), CreateInput{Nome: "Engenharia", Cod: &cod})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Cod != "ENG010" {
		t.Fatalf("expected ENG010, got %s", c.Cod)
	}
}

func TestCreateCorridaNoIndiceUnico(t *testing.T) {
	stub := newStubRepo()
	stub.createErr = repo.ErrConflito
	svc := NewService(stub)

	_, err := svc.Create(context.Background(), CreateInput{Nome: "Engenharia"})
	if !errors.Is(err, ErrCodigoEmUso) {
		t.Fatalf("expected ErrCodigoEmUso, got %v", err)
	}
}

func TestUpdateCodigoEmUsoPorOutro(t *testing.T) {
	stub := newStubRepo()
	svc := NewService(stub)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Nome: "Engenharia"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := svc.Create(ctx, CreateInput{Nome: "Medicina"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, b.ID, UpdateInput{Cod: &a.Cod})
	if !errors.Is(err, ErrCodigoEmUso) {
		t.Fatalf("expected ErrCodigoEmUso, got %v", err)
	}

	// O próprio código do registro não conta como colisão.
	if _, err := svc.Update(ctx, b.ID, UpdateInput{Cod: &b.Cod}); err != nil {
		t.Fatalf("update com o próprio código: %v", err)
	}
}
