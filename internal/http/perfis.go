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

// PerfilHandler expõe o CRUD de perfis e a gestão dos conjuntos de
// permissões.
type PerfilHandler struct {
	perfis *service.PerfilService
}

func NewPerfilHandler(perfis *service.PerfilService) *PerfilHandler {
	return &PerfilHandler{perfis: perfis}
}

func (h *PerfilHandler) RegisterRoutes(r chi.Router) {
	r.Route("/perfis", func(r chi.Router) {
		r.With(mw.RequirePermission(permissao.PerfisListar)).Get("/", h.handleListar)
		r.With(mw.RequirePermission(permissao.PerfisVisualizar)).Get("/{id}", h.handleObter)
		r.With(mw.RequirePermission(permissao.PerfisCriar)).Post("/", h.handleCriar)
		r.With(mw.RequirePermission(permissao.PerfisEditar)).Put("/{id}", h.handleAtualizar)
		r.With(mw.RequirePermission(permissao.PerfisEditar)).Post("/{id}/permissoes", h.handleAdicionarPermissoes)
		r.With(mw.RequirePermission(permissao.PerfisEditar)).Delete("/{id}/permissoes", h.handleRemoverPermissoes)
		r.With(mw.RequirePermission(permissao.PerfisExcluir), mw.RequireAdmin).Delete("/{id}", h.handleExcluir)
	})
}

func (h *PerfilHandler) handleListar(w http.ResponseWriter, r *http.Request) {
	perfis, err := h.perfis.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "erro ao listar perfis", nil)
		return
	}
	WriteJSON(w, http.StatusOK, "", perfis)
}

func (h *PerfilHandler) handleObter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	p, err := h.perfis.Get(r.Context(), id)
	if err != nil {
		writePerfilError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "", p)
}

func (h *PerfilHandler) handleCriar(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePerfilInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	p, err := h.perfis.Create(r.Context(), in)
	if err != nil {
		writePerfilError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, "perfil criado com sucesso", p)
}

func (h *PerfilHandler) handleAtualizar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var in service.UpdatePerfilInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	p, err := h.perfis.Update(r.Context(), id, in)
	if err != nil {
		writePerfilError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "perfil atualizado com sucesso", p)
}

type permissoesRequest struct {
	Permissoes []uuid.UUID `json:"permissoes"`
}

func (h *PerfilHandler) handleAdicionarPermissoes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var req permissoesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	p, err := h.perfis.AdicionarPermissoes(r.Context(), id, req.Permissoes)
	if err != nil {
		writePerfilError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "permissões adicionadas com sucesso", p)
}

func (h *PerfilHandler) handleRemoverPermissoes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var req permissoesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	p, err := h.perfis.RemoverPermissoes(r.Context(), id, req.Permissoes)
	if err != nil {
		writePerfilError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "permissões removidas com sucesso", p)
}

func (h *PerfilHandler) handleExcluir(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	if err := h.perfis.Delete(r.Context(), id); err != nil {
		writePerfilError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "perfil excluído com sucesso", nil)
}

func writePerfilError(w http.ResponseWriter, err error) {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Error(), nil)
	case errors.Is(err, service.ErrNomePerfilEmUso):
		WriteError(w, http.StatusConflict, service.ErrNomePerfilEmUso.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "perfil não encontrado", nil)
	case errors.Is(err, repo.ErrReferenciado):
		WriteError(w, http.StatusConflict, "perfil vinculado a usuários", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "erro interno do servidor", nil)
	}
}
