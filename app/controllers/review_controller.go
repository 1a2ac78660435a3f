package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/pkg/bind"
	"github.com/nikhilverma/shopline/pkg/middleware"
	"github.com/nikhilverma/shopline/pkg/response"
)

type ReviewController struct {
	service *services.ReviewService
}

func NewReviewController() *ReviewController {
	return &ReviewController{service: services.NewReviewService()}
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	var body reviewRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := userFromCtx(r)
	review, err := c.service.Add(userID, paramUint(r, "id"), body.Rating, body.Comment)
	if err != nil {
		c.writeReviewError(w, err)
		return
	}
	response.Created(w, review)
}

func (c *ReviewController) Update(w http.ResponseWriter, r *http.Request) {
	var body reviewRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := userFromCtx(r)
	review, err := c.service.Update(paramUint(r, "id"), userID, body.Rating, body.Comment)
	if err != nil {
		c.writeReviewError(w, err)
		return
	}
	response.Success(w, review)
}

func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := userFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)
	if err := c.service.Delete(paramUint(r, "id"), userID, role == "admin"); err != nil {
		c.writeReviewError(w, err)
		return
	}
	response.NoContent(w)
}

func (c *ReviewController) writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrRatingRange):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrDuplicateReview):
		response.Conflict(w, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "review operation failed")
	}
}
