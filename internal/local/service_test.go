package local

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

type stubRepo struct {
	locais map[string]Local
}

func newStubRepo() *stubRepo {
	return &stubRepo{locais: make(map[string]Local)}
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (Local, error) {
	for _, l := range s.locais {
		if l.ID == id {
			return l, nil
		}
	}
	return Local{}, repo.ErrNotFound
}

func (s *stubRepo) List(ctx context.Context, f ListFilter, limit, offset int) ([]Local, int, error) {
	out := make([]Local, 0, len(s.locais))
	for _, l := range s.locais {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (s *stubRepo) ListComEventos(ctx context.Context) ([]LocalComEventos, error) {
	return nil, nil
}

func (s *stubRepo) ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error) {
	l, ok := s.locais[cod]
	return ok && l.ID != exceto, nil
}

func (s *stubRepo) Create(ctx context.Context, in CreateInput, cod string) (Local, error) {
	if _, ok := s.locais[cod]; ok {
		return Local{}, repo.ErrConflito
	}
	l := Local{ID: uuid.New(), Cod: cod, Nome: in.Nome, TipoLocal: in.TipoLocal, Capacidade: in.Capacidade, Ativo: true}
	s.locais[cod] = l
	return l, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Local, error) {
	for cod, l := range s.locais {
		if l.ID == id {
			if in.Cod != nil {
				if outro, ok := s.locais[*in.Cod]; ok && outro.ID != id {
					return Local{}, repo.ErrConflito
				}
				delete(s.locais, cod)
				l.Cod = *in.Cod
				cod = *in.Cod
			}
			if in.Nome != nil {
				l.Nome = *in.Nome
			}
			if in.TipoLocal != nil {
				l.TipoLocal = *in.TipoLocal
			}
			if in.Capacidade != nil {
				l.Capacidade = in.Capacidade
			}
			s.locais[cod] = l
			return l, nil
		}
	}
	return Local{}, repo.ErrNotFound
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for cod, l := range s.locais {
		if l.ID == id {
			delete(s.locais, cod)
			return nil
		}
	}
	return repo.ErrNotFound
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCreateGeraCodigoComPrefixoDoTipo(t *testing.T) {
	svc := NewService(newStubRepo())

	l, err := svc.Create(context.Background(), CreateInput{
		Nome:       "Laboratório de Química",
		TipoLocal:  TipoLaboratorio,
		Capacidade: intPtr(30),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !regexp.MustCompile(`^LAB\d{3}$`).MatchString(l.Cod) {
		t.Fatalf("expected LAB with 3-digit suffix, got %s", l.Cod)
	}
}

func TestCreateTipoForaDaEnumeracao(t *testing.T) {
	stub := newStubRepo()
	svc := NewService(stub)

	_, err := svc.Create(context.Background(), CreateInput{
		Nome:       "Hall de Entrada",
		TipoLocal:  "Hall",
		Capacidade: intPtr(100),
	})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for tipo fora da lista, got %v", err)
	}
	if len(stub.locais) != 0 {
		t.Fatalf("local should not have been stored, got %d", len(stub.locais))
	}
}

func TestGerarCodigoTipoDesconhecidoUsaLOC(t *testing.T) {
	svc := NewService(newStubRepo())

	cod, err := svc.GerarCodigo(context.Background(), "Hall")
	if err != nil {
		t.Fatalf("gerar código: %v", err)
	}
	if !regexp.MustCompile(`^LOC\d{3}$`).MatchString(cod) {
		t.Fatalf("expected LOC prefix, got %s", cod)
	}
}

func TestCreateComCodigoInformado(t *testing.T) {
	stub := newStubRepo()
	svc := NewService(stub)
	ctx := context.Background()

	l, err := svc.Create(ctx, CreateInput{
		Cod:        strPtr("  sa900  "),
		Nome:       "Sala Especial",
		TipoLocal:  TipoSalaDeAula,
		Capacidade: intPtr(40),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.Cod != "SA900" {
		t.Fatalf("expected normalized SA900, got %s", l.Cod)
	}

	_, err = svc.Create(ctx, CreateInput{
		Cod:        strPtr("SA900"),
		Nome:       "Sala Repetida",
		TipoLocal:  TipoSalaDeAula,
		Capacidade: intPtr(40),
	})
	if !errors.Is(err, ErrCodigoEmUso) {
		t.Fatalf("expected ErrCodigoEmUso, got %v", err)
	}
}

func TestUpdateTrocaCodigoComChecagem(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Cod: strPtr("SA001"), Nome: "Sala A", TipoLocal: TipoSalaDeAula, Capacidade: intPtr(30)})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := svc.Create(ctx, CreateInput{Cod: strPtr("SA002"), Nome: "Sala B", TipoLocal: TipoSalaDeAula, Capacidade: intPtr(30)})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	// Código de outro local é recusado.
	if _, err := svc.Update(ctx, b.ID, UpdateInput{Cod: strPtr("SA001")}); !errors.Is(err, ErrCodigoEmUso) {
		t.Fatalf("expected ErrCodigoEmUso, got %v", err)
	}

	// O próprio código passa pela exclusão, e um livre é aceito.
	if _, err := svc.Update(ctx, a.ID, UpdateInput{Cod: strPtr("SA001")}); err != nil {
		t.Fatalf("update with own code: %v", err)
	}
	atualizado, err := svc.Update(ctx, a.ID, UpdateInput{Cod: strPtr("sa010")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if atualizado.Cod != "SA010" {
		t.Fatalf("expected SA010, got %s", atualizado.Cod)
	}
}

func TestGerarCodigoPulaColisao(t *testing.T) {
	stub := newStubRepo()
	stub.locais["AUD007"] = Local{ID: uuid.New(), Cod: "AUD007"}

	svc := NewService(stub)
	sorteios := []int{7, 7, 42}
	svc.sorteioSufixo = func() int {
		v := sorteios[0]
		if len(sorteios) > 1 {
			sorteios = sorteios[1:]
		}
		return v
	}

	cod, err := svc.GerarCodigo(context.Background(), TipoAuditorio)
	if err != nil {
		t.Fatalf("gerar código: %v", err)
	}
	if cod != "AUD042" {
		t.Fatalf("expected AUD042, got %s", cod)
	}
}

func TestGerarCodigoEsgotaTentativas(t *testing.T) {
	stub := newStubRepo()
	stub.locais["BIB001"] = Local{ID: uuid.New(), Cod: "BIB001"}

	svc := NewService(stub)
	svc.sorteioSufixo = func() int { return 1 }

	_, err := svc.GerarCodigo(context.Background(), TipoBiblioteca)
	if !errors.Is(err, ErrCodigosEsgotados) {
		t.Fatalf("expected ErrCodigosEsgotados, got %v", err)
	}
}

func TestCreateCapacidadeObrigatoria(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Nome: "Sala 101", TipoLocal: TipoSalaDeAula})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Espaços abertos dispensam lotação.
	if _, err := svc.Create(ctx, CreateInput{Nome: "Jardim Central", TipoLocal: TipoEspaco}); err != nil {
		t.Fatalf("create espaço sem capacidade: %v", err)
	}

	_, err = svc.Create(ctx, CreateInput{Nome: "Sala 102", TipoLocal: TipoSalaDeAula, Capacidade: intPtr(0)})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for capacidade zero, got %v", err)
	}
}

func TestUpdateNaoRegeneraCodigo(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	l, err := svc.Create(ctx, CreateInput{Nome: "Auditório Norte", TipoLocal: TipoAuditorio, Capacidade: intPtr(200)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tipo := TipoBiblioteca
	atualizado, err := svc.Update(ctx, l.ID, UpdateInput{TipoLocal: &tipo})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if atualizado.Cod != l.Cod {
		t.Fatalf("code changed on update: %s -> %s", l.Cod, atualizado.Cod)
	}
	if atualizado.TipoLocal != TipoBiblioteca {
		t.Fatalf("expected tipo atualizado, got %s", atualizado.TipoLocal)
	}
}
