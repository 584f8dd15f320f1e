package evento

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/gestaoseminario/api/internal/repo"
)

type stubRepo struct {
	eventos   map[uuid.UUID]Evento
	createErr error
}

func newStubRepo() *stubRepo {
	return &stubRepo{eventos: make(map[uuid.UUID]Evento)}
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (Evento, error) {
	e, ok := s.eventos[id]
	if !ok {
		return Evento{}, repo.ErrNotFound
	}
	return e, nil
}

func (s *stubRepo) List(ctx context.Context, f ListFilter, limit, offset int) ([]Evento, int, error) {
	out := make([]Evento, 0, len(s.eventos))
	for _, e := range s.eventos {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (s *stubRepo) Cronograma(ctx context.Context, data string) ([]Evento, error) {
	return nil, nil
}

func (s *stubRepo) Estatisticas(ctx context.Context) (Estatisticas, error) {
	return Estatisticas{}, nil
}

func (s *stubRepo) ExistsCod(ctx context.Context, cod string, exceto uuid.UUID) (bool, error) {
	for _, e := range s.eventos {
		if e.Cod == cod && e.ID != exceto {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) MaxSufixo(ctx context.Context, prefixo string) (int, error) {
	max := 0
	for _, e := range s.eventos {
		if !strings.HasPrefix(e.Cod, prefixo) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(e.Cod, prefixo))
		if err == nil && n > max {
			max = n
		}
	}
	return max, nil
}

func (s *stubRepo) ExisteConflito(ctx context.Context, sala, data, hora string, exceto uuid.UUID) (bool, error) {
	for _, e := range s.eventos {
		if e.Sala == sala && e.Data == data && e.Hora == hora && e.ID != exceto {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) Create(ctx context.Context, e Evento) (Evento, error) {
	if s.createErr != nil {
		return Evento{}, s.createErr
	}
	e.ID = uuid.New()
	s.eventos[e.ID] = e
	return e, nil
}

func (s *stubRepo) Update(ctx context.Context, e Evento) (Evento, error) {
	if _, ok := s.eventos[e.ID]; !ok {
		return Evento{}, repo.ErrNotFound
	}
	s.eventos[e.ID] = e
	return e, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.eventos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.eventos, id)
	return nil
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func entradaValida() CreateInput {
	return CreateInput{
		Data:       "2026-10-15",
		Hora:       "14:00",
		Tema:       "Sistemas Distribuídos na Prática",
		Autores:    []string{"Maria Souza"},
		Orientador: strPtr("Prof. Almeida"),
		Sala:       "Auditório Central",
		TipoEvento: TipoApresentacao,
	}
}

func TestCreateGeraCodigoSequencialPorTipo(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	primeiro, err := svc.Create(ctx, entradaValida())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if primeiro.Cod != "APT001" {
		t.Fatalf("expected APT001, got %s", primeiro.Cod)
	}

	in := entradaValida()
	in.Hora = "16:00"
	segundo, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if segundo.Cod != "APT002" {
		t.Fatalf("expected APT002, got %s", segundo.Cod)
	}

	palestra := entradaValida()
	palestra.Hora = "18:00"
	palestra.TipoEvento = TipoPalestraPrincipal
	palestra.Palestrante = strPtr("Dr. Fulano")
	terceiro, err := svc.Create(ctx, palestra)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if terceiro.Cod != "PAL001" {
		t.Fatalf("expected PAL001, got %s", terceiro.Cod)
	}
}

func TestCreateSequenciaNumericaAlemDeTresDigitos(t *testing.T) {
	stub := newStubRepo()
	id := uuid.New()
	stub.eventos[id] = Evento{ID: id, Cod: "OFC1000", Sala: "Sala 9", Data: "2026-10-01", Hora: "08:00"}

	svc := NewService(stub)
	in := entradaValida()
	in.TipoEvento = TipoOficina

	criado, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// A sequência segue o maior sufixo numérico, não o lexicográfico.
	if criado.Cod != "OFC1001" {
		t.Fatalf("expected OFC1001, got %s", criado.Cod)
	}
}

func TestCreateDetectaConflitoDeAgenda(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, entradaValida()); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, entradaValida())
	if !errors.Is(err, ErrConflitoAgenda) {
		t.Fatalf("expected ErrConflitoAgenda, got %v", err)
	}

	// Mesma sala e data em outro horário não conflita.
	in := entradaValida()
	in.Hora = "15:00"
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create em horário livre: %v", err)
	}

	// Mesmo horário em outra sala não conflita.
	in = entradaValida()
	in.Sala = "Sala 202"
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create em sala livre: %v", err)
	}
}

func TestCreateCorridaNoIndiceUnico(t *testing.T) {
	stub := newStubRepo()
	stub.createErr = repo.ErrConflito
	svc := NewService(stub)

	_, err := svc.Create(context.Background(), entradaValida())
	if !errors.Is(err, ErrConflitoAgenda) {
		t.Fatalf("expected ErrConflitoAgenda, got %v", err)
	}
}

func TestCreateValidacoes(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	casos := []struct {
		nome    string
		mutacao func(*CreateInput)
	}{
		{"data inválida", func(in *CreateInput) { in.Data = "15/10/2026" }},
		{"hora inválida", func(in *CreateInput) { in.Hora = "25h" }},
		{"duração curta", func(in *CreateInput) { in.Duracao = intPtr(10) }},
		{"duração longa", func(in *CreateInput) { in.Duracao = intPtr(500) }},
		{"tema curto", func(in *CreateInput) { in.Tema = "Oi" }},
		{"tema longo", func(in *CreateInput) { in.Tema = strings.Repeat("a", 201) }},
		{"resumo longo", func(in *CreateInput) { in.Resumo = strPtr(strings.Repeat("a", 1001)) }},
		{"sem sala", func(in *CreateInput) { in.Sala = " " }},
		{"tipo desconhecido", func(in *CreateInput) { in.TipoEvento = "Mesa Redonda" }},
		{"sem autores", func(in *CreateInput) { in.Autores = []string{"  "} }},
		{"palestra sem palestrante", func(in *CreateInput) {
			in.TipoEvento = TipoPalestraPrincipal
			in.Palestrante = nil
		}},
	}

	for _, caso := range casos {
		in := entradaValida()
		caso.mutacao(&in)
		_, err := svc.Create(ctx, in)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", caso.nome, err)
		}
	}
}

func TestCreateDuracaoPadrao(t *testing.T) {
	svc := NewService(newStubRepo())

	criado, err := svc.Create(context.Background(), entradaValida())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if criado.Duracao != 60 {
		t.Fatalf("expected default duration 60, got %d", criado.Duracao)
	}
}

func TestCursoLegadoAcompanhaLista(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	cursoA, cursoB := uuid.New(), uuid.New()
	in := entradaValida()
	in.Cursos = []uuid.UUID{cursoA, cursoB}

	criado, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if criado.CursoID == nil || *criado.CursoID != cursoA {
		t.Fatalf("expected legacy curso %s, got %v", cursoA, criado.CursoID)
	}

	// Esvaziar a lista zera também o campo legado.
	atualizado, err := svc.Update(ctx, criado.ID, UpdateInput{Cursos: []uuid.UUID{}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if atualizado.CursoID != nil {
		t.Fatalf("expected nil legacy curso, got %v", atualizado.CursoID)
	}
}

func TestUpdateMantemCodigoEConferesConflito(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	primeiro, err := svc.Create(ctx, entradaValida())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := entradaValida()
	in.Hora = "16:00"
	segundo, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mover o segundo para cima do primeiro conflita.
	hora := primeiro.Hora
	if _, err := svc.Update(ctx, segundo.ID, UpdateInput{Hora: &hora}); !errors.Is(err, ErrConflitoAgenda) {
		t.Fatalf("expected ErrConflitoAgenda, got %v", err)
	}

	// Atualizar o próprio evento sem mudar o horário não conflita consigo.
	tema := "Título Revisado da Apresentação"
	atualizado, err := svc.Update(ctx, primeiro.ID, UpdateInput{Tema: &tema})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if atualizado.Cod != primeiro.Cod {
		t.Fatalf("code changed on update: %s -> %s", primeiro.Cod, atualizado.Cod)
	}
}

func TestCreateComCodigoInformado(t *testing.T) {
	svc := NewService(newStubRepo())
	ctx := context.Background()

	in := entradaValida()
	in.Cod = strPtr("apt900")
	criado, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if criado.Cod != "APT900" {
		t.Fatalf("expected APT900, got %s", criado.Cod)
	}

	dup := entradaValida()
	dup.Hora = "19:00"
	dup.Cod = strPtr("APT900")
	if _, err := svc.Create(ctx, dup); !errors.Is(err, ErrCodigoEmUso) {
		t.Fatalf("expected ErrCodigoEmUso, got %v", err)
	}
}
