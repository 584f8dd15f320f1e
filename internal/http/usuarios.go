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

// UsuarioHandler expõe o CRUD de contas.
type UsuarioHandler struct {
	usuarios *service.UsuarioService
}

func NewUsuarioHandler(usuarios *service.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{usuarios: usuarios}
}

func (h *UsuarioHandler) RegisterRoutes(r chi.Router) {
	r.Route("/usuarios", func(r chi.Router) {
		r.With(mw.RequirePermission(permissao.UsuariosListar)).Get("/", h.handleListar)
		r.With(mw.RequirePermission(permissao.UsuariosVisualizar)).Get("/{id}", h.handleObter)
		r.With(mw.RequirePermission(permissao.UsuariosCriar)).Post("/", h.handleCriar)
		r.With(mw.RequirePermission(permissao.UsuariosEditar)).Put("/{id}", h.handleAtualizar)
		r.With(mw.RequirePermission(permissao.UsuariosEditar)).Put("/{id}/senha", h.handleAlterarSenha)
		r.With(mw.RequirePermission(permissao.UsuariosExcluir), mw.RequireAdmin).Delete("/{id}", h.handleDesativar)
	})
}

func (h *UsuarioHandler) handleListar(w http.ResponseWriter, r *http.Request) {
	page, perPage := ParsePagination(r)
	search := r.URL.Query().Get("search")

	usuarios, total, err := h.usuarios.List(r.Context(), search, page, perPage)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "erro ao listar usuários", nil)
		return
	}
	WritePaginated(w, usuarios, page, perPage, total)
}

func (h *UsuarioHandler) handleObter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	u, err := h.usuarios.Get(r.Context(), id)
	if err != nil {
		writeUsuarioError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "", u)
}

func (h *UsuarioHandler) handleCriar(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUsuarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	u, err := h.usuarios.Create(r.Context(), in)
	if err != nil {
		writeUsuarioError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, "usuário criado com sucesso", u)
}

func (h *UsuarioHandler) handleAtualizar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var in service.UpdateUsuarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	executor, _ := mw.GetUsuario(r.Context())
	u, err := h.usuarios.Update(r.Context(), id, in, executor.ID)
	if err != nil {
		writeUsuarioError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "usuário atualizado com sucesso", u)
}

type alterarSenhaRequest struct {
	SenhaAtual *string `json:"senhaAtual"`
	NovaSenha  string  `json:"novaSenha"`
}

func (h *UsuarioHandler) handleAlterarSenha(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var req alterarSenhaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	if err := h.usuarios.AlterarSenha(r.Context(), id, req.SenhaAtual, req.NovaSenha); err != nil {
		writeUsuarioError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "senha alterada com sucesso", nil)
}

func (h *UsuarioHandler) handleDesativar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	executor, _ := mw.GetUsuario(r.Context())
	u, err := h.usuarios.Desativar(r.Context(), id, executor.ID)
	if err != nil {
		writeUsuarioError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, "usuário desativado com sucesso", u)
}

func writeUsuarioError(w http.ResponseWriter, err error) {
	var ve service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Error(), nil)
	case errors.Is(err, service.ErrEmailEmUso):
		WriteError(w, http.StatusConflict, service.ErrEmailEmUso.Error(), nil)
	case errors.Is(err, service.ErrPerfilInexistente):
		WriteError(w, http.StatusBadRequest, service.ErrPerfilInexistente.Error(), nil)
	case errors.Is(err, service.ErrAutoDesativacao):
		WriteError(w, http.StatusBadRequest, service.ErrAutoDesativacao.Error(), nil)
	case errors.Is(err, service.ErrSenhaAtual):
		WriteError(w, http.StatusBadRequest, service.ErrSenhaAtual.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "usuário não encontrado", nil)
	default:
		WriteError(w, http.StatusInternalServerError, "erro interno do servidor", nil)
	}
}
