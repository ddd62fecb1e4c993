package board

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mcanavci/lawjobs/internal/auth"
	"github.com/mcanavci/lawjobs/internal/model"
	"github.com/mcanavci/lawjobs/internal/store"
)

var validate = validator.New()

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=ADMIN EMPLOYER CANDIDATE"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonFieldErrors(w, registerFieldErrors(err))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("[board] register hash error: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         model.Role(req.Role),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			jsonError(w, "this email is already in use", http.StatusConflict)
			return
		}
		log.Printf("[board] register store error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}

	jsonStatus(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("[board] login store error: %v", err)
		jsonError(w, "storage error", http.StatusInternalServerError)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		jsonError(w, auth.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Printf("[board] login token error: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, map[string]any{
		"token": token,
		"user":  user,
	})
}

func registerFieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "email":
			fields[name] = "invalid email address"
		case "min":
			fields[name] = "must be at least " + fe.Param() + " characters"
		case "oneof":
			fields[name] = "must be one of " + fe.Param()
		default:
			fields[name] = "is required"
		}
	}
	return fields
}
