// Package api exposes the activity registry over HTTP.
package api

import (
	"context"
	"net/http"

	apperrors "activity-registry/internal/common/errors"
	"activity-registry/internal/enrollment"
	"activity-registry/internal/registry"

	"github.com/gin-gonic/gin"
)

// EnrollmentService is what the handlers need from enrollment.Service.
type EnrollmentService interface {
	ListActivities(ctx context.Context) map[string]registry.Activity
	Signup(ctx context.Context, input enrollment.SignupInput) (*enrollment.Result, error)
	Unregister(ctx context.Context, input enrollment.UnregisterInput) (*enrollment.Result, error)
}

type ActivityHandler struct {
	service EnrollmentService
	errors  *apperrors.ErrorHandler
}

func NewActivityHandler(service EnrollmentService, errs *apperrors.ErrorHandler) *ActivityHandler {
	return &ActivityHandler{service: service, errors: errs}
}

// emailRequest accepts the email from a form or JSON body when the query
// string does not carry it.
type emailRequest struct {
	Email string `form:"email" json:"email"`
}

func (h *ActivityHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListActivities(c.Request.Context()))
}

func (h *ActivityHandler) Signup(c *gin.Context) {
	email, err := emailParam(c)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	res, err := h.service.Signup(c.Request.Context(), enrollment.SignupInput{
		Activity: c.Param("name"),
		Email:    email,
	})
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ActivityHandler) Unregister(c *gin.Context) {
	email, err := emailParam(c)
	if err != nil {
		h.errors.Respond(c, err)
		return
	}

	res, err := h.service.Unregister(c.Request.Context(), enrollment.UnregisterInput{
		Activity: c.Param("name"),
		Email:    email,
	})
	if err != nil {
		h.errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func emailParam(c *gin.Context) (string, error) {
	if email, ok := c.GetQuery("email"); ok {
		return email, nil
	}
	if c.Request.ContentLength == 0 {
		return "", nil
	}

	var req emailRequest
	if err := c.ShouldBind(&req); err != nil {
		return "", apperrors.NewInvalidRequestError("malformed request body: " + err.Error())
	}
	return req.Email, nil
}
