package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gestaoseminario/api/internal/permissao"
)

type codigosLoader interface {
	ListCodigos(ctx context.Context) ([]string, error)
}

// Registry carrega os códigos de permissão cadastrados no banco na subida
// do processo. Guardas usam constantes tipadas, mas o catálogo do banco é
// editável; o registry denuncia no log qualquer constante sem registro
// correspondente, que de outra forma negaria acesso silenciosamente para
// sempre.
type Registry struct {
	codigos map[string]struct{}
}

// LoadRegistry lê o catálogo e confere as permissões padrão.
func LoadRegistry(ctx context.Context, permissoes codigosLoader, log zerolog.Logger) (*Registry, error) {
	cadastrados, err := permissoes.ListCodigos(ctx)
	if err != nil {
		return nil, err
	}

	r := &Registry{codigos: make(map[string]struct{}, len(cadastrados))}
	for _, c := range cadastrados {
		r.codigos[c] = struct{}{}
	}

	for _, def := range permissao.Padrao() {
		if !r.Existe(def.Codigo) {
			log.Warn().Str("codigo", string(def.Codigo)).
				Msg("permissão padrão ausente do catálogo; rotas que a exigem negarão acesso")
		}
	}
	return r, nil
}

// Existe informa se o código está cadastrado.
func (r *Registry) Existe(codigo permissao.Codigo) bool {
	_, ok := r.codigos[string(codigo)]
	return ok
}
