package curso

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/gestaoseminario/api/internal/http/middleware"
	"github.com/gestaoseminario/api/internal/permissao"
	"github.com/gestaoseminario/api/internal/repo"
)

// Handler expõe o CRUD de cursos.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cursos", func(r chi.Router) {
		r.With(mw.RequirePermission(permissao.CursosListar)).Get("/", h.handleListar)
		r.With(mw.RequirePermission(permissao.CursosVisualizar)).Get("/{id}", h.handleObter)
		r.With(mw.RequirePermission(permissao.CursosCriar)).Post("/", h.handleCriar)
		r.With(mw.RequirePermission(permissao.CursosEditar)).Put("/{id}", h.handleAtualizar)
		r.With(mw.RequirePermission(permissao.CursosExcluir), mw.RequireAdmin).Delete("/{id}", h.handleExcluir)
	})
}

func (h *Handler) handleListar(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePaginacao(r)
	search := r.URL.Query().Get("search")

	cursos, total, err := h.service.List(r.Context(), search, page, perPage)
	if err != nil {
		writeErro(w, http.StatusInternalServerError, "erro ao listar cursos", nil)
		return
	}
	writePaginado(w, cursos, page, perPage, total)
}

func (h *Handler) handleObter(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErro(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeDados(w, http.StatusOK, "", c)
}

func (h *Handler) handleCriar(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErro(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeDados(w, http.StatusCreated, "curso criado com sucesso", c)
}

func (h *Handler) handleAtualizar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErro(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErro(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}

	c, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeDados(w, http.StatusOK, "curso atualizado com sucesso", c)
}

func (h *Handler) handleExcluir(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErro(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeDados(w, http.StatusOK, "curso excluído com sucesso", nil)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		writeErro(w, http.StatusBadRequest, ve.Error(), nil)
	case errors.Is(err, ErrCodigoEmUso):
		writeErro(w, http.StatusConflict, ErrCodigoEmUso.Error(), nil)
	case errors.Is(err, ErrCodigosEsgotados):
		writeErro(w, http.StatusConflict, ErrCodigosEsgotados.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		writeErro(w, http.StatusNotFound, "curso não encontrado", nil)
	case errors.Is(err, repo.ErrReferenciado):
		writeErro(w, http.StatusConflict, "curso vinculado a eventos ou usuários", nil)
	default:
		writeErro(w, http.StatusInternalServerError, "erro interno do servidor", nil)
	}
}

type envelope struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message,omitempty"`
	Data       any        `json:"data,omitempty"`
	Pagination *paginacao `json:"pagination,omitempty"`
	Errors     []string   `json:"errors,omitempty"`
}

type paginacao struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

func writeDados(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

func writePaginado(w http.ResponseWriter, data any, page, perPage, total int) {
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: true,
		Data:    data,
		Pagination: &paginacao{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: perPage,
		},
	})
}

func writeErro(w http.ResponseWriter, status int, message string, errs []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message, Errors: errs})
}

func parsePaginacao(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
