package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gestaoseminario/api/internal/permissao"
)

type stubCodigos struct {
	codigos []string
}

func (s *stubCodigos) ListCodigos(ctx context.Context) ([]string, error) {
	return s.codigos, nil
}

func TestLoadRegistryConhecePermissoesCadastradas(t *testing.T) {
	loader := &stubCodigos{codigos: []string{string(permissao.CursosListar)}}

	r, err := LoadRegistry(context.Background(), loader, zerolog.Nop())
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	if !r.Existe(permissao.CursosListar) {
		t.Fatalf("expected %s to be registered", permissao.CursosListar)
	}
	if r.Existe(permissao.CursosExcluir) {
		t.Fatalf("did not expect %s to be registered", permissao.CursosExcluir)
	}
}
