package controllers

import (
	"errors"
	"net/http"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/bind"
	"github.com/nikhilverma/shopline/pkg/response"
	"github.com/nikhilverma/shopline/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Register(body.Name, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Conflict(w, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}

	response.Created(w, map[string]interface{}{"user": user, "tokens": tokens})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	sessionID := ""
	if s := session.FromCtx(r); s != nil {
		sessionID = s.ID()
	}

	user, tokens, err := c.service.Login(body.Email, body.Password, sessionID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredential) {
			response.Unauthorized(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	response.Success(w, map[string]interface{}{"user": user, "tokens": tokens})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := c.service.Refresh(body.RefreshToken)
	if err != nil {
		response.Unauthorized(w)
		return
	}
	response.Success(w, tokens)
}

func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	user, err := c.service.Profile(userID)
	if err != nil {
		response.NotFound(w)
		return
	}
	response.Success(w, user)
}
