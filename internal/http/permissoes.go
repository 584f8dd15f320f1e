package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/gestaoseminario/api/internal/http/middleware"
	"github.com/gestaoseminario/api/internal/permissao"
	"github.com/gestaoseminario/api/internal/repo"
	"github.com/gestaoseminario/api/internal/service"
)

// PermissaoHandler expõe o catálogo de permissões.
type PermissaoHandler struct {
	permissoes *service.PermissaoService
}

func NewPermissaoHandler(permissoes *service.PermissaoService) *PermissaoHandler {
	return &PermissaoHandler{permissoes: permissoes}
}

func (h *PermissaoHandler) RegisterRoutes(r chi.Router) {
	r.Route("/permissoes", func(r chi.Router) {
		r.With(mw.RequirePermission(permissao.PermissoesListar)).Get("/", h.handleListar)
		r.With(mw.RequirePermission(permissao.PermissoesListar)).Get("/modulos", h.handleListarPorModulo)
		r.With(mw.RequirePermission(permissao.PermissoesVisualizar)).Get("/{id}", h.handleObter)
		r.With(mw.RequirePermission(permissao.PermissoesCriar)).Post("/", h.handleCriar)
		r.With(mw.RequirePermission(permissao.PermissoesEditar)).Put("/{id}", h.handleAtualizar)
		r.With(mw.RequirePermission(permissao.PermissoesExcluir), mw.RequireAdmin).Delete("/{id}", h.handleExcluir)
	})
}

func (h *PermissaoHandler) handleListar(w http.ResponseWriter, r *http.Request) {
	permissoes, err := h.permissoes.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "erro ao listar permissões", nil)
		return
	}
	WriteJSON(w, http.StatusOK, "", permissoes)
}

func (h *PermissaoHandler) handleListarPorModulo(w http.ResponseWriter, r *http.Request) {
	porModulo, err := h.permissoes.ListPorModulo(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "erro ao listar permissões", nil)
		return
	}
	WriteJSON(w, http.StatusOK, "", porModulo)
}

func (h *PermissaoHandler) handleObter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	p, err := h.permissoes.Get(r.Context(), id)
	if err != nil {
		writePermissaoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "", p)
}

func (h *PermissaoHandler) handleCriar(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePermissaoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	p, err := h.permissoes.Create(r.Context(), in)
	if err != nil {
		writePermissaoError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, "permissão criada com sucesso", p)
}

func (h *PermissaoHandler) handleAtualizar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var in service.UpdatePermissaoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	p, err := h.permissoes.Update(r.Context(), id, in)
	if err != nil {
		writePermissaoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "permissão atualizada com sucesso", p)
}

func (h *PermissaoHandler) handleExcluir(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	if err := h.permissoes.Delete(r.Context(), id); err != nil {
		writePermissaoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "permissão excluída com sucesso", nil)
}

func writePermissaoError(w http.ResponseWriter, err error) {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Error(), nil)
	case errors.Is(err, service.ErrCodigoPermissaoEmUso):
		WriteError(w, http.StatusConflict, service.ErrCodigoPermissaoEmUso.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "permissão não encontrada", nil)
	case errors.Is(err, repo.ErrReferenciado):
		WriteError(w, http.StatusConflict, "permissão vinculada a perfis", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "erro interno do servidor", nil)
	}
}
