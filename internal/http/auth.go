package http

import (
	"encoding/json"
	"errors"
	"net/http"

	mw "github.com/gestaoseminario/api/internal/http/middleware"
	"github.com/gestaoseminario/api/internal/service"
)

// AuthHandler expõe login, verificação e logout.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "payload inválido", nil)
		return
	}
	if req.Email == "" || req.Senha == "" {
		WriteError(w, http.StatusBadRequest, "e-mail e senha são obrigatórios", nil)
		return
	}

	out, err := h.auth.Login(r.Context(), req.Email, req.Senha)
	if errors.Is(err, service.ErrCredenciaisInvalidas) {
		WriteError(w, http.StatusUnauthorized, service.ErrCredenciaisInvalidas.Error(), nil)
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "erro interno do servidor", nil)
		return
	}
	WriteJSON(w, http.StatusOK, "login realizado com sucesso", out)
}

// HandleVerify devolve a identidade já resolvida pelo middleware; chegar
// aqui significa que o token passou por todas as etapas de validação.
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	u, ok := mw.GetUsuario(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "token de acesso não fornecido", nil)
		return
	}
	WriteJSON(w, http.StatusOK, "", u)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, ok := mw.GetUsuario(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "token de acesso não fornecido", nil)
		return
	}

	if err := h.auth.Logout(r.Context(), u.ID); err != nil {
		WriteError(w, http.StatusInternalServerError, "erro interno do servidor", nil)
		return
	}
	WriteJSON(w, http.StatusOK, "logout realizado com sucesso", nil)
}
