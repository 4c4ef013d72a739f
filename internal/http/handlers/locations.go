package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/gin-gonic/gin"
)

type LocationsStore interface {
	Create(ctx context.Context, req location.CreateLocationRequest) (location.Location, error)
	GetByID(ctx context.Context, id string) (location.Location, error)
	List(ctx context.Context) ([]location.Location, error)
	Delete(ctx context.Context, id string) error
}

type LocationsHandler struct {
	repo LocationsStore
}

func NewLocationsHandler(repo LocationsStore) *LocationsHandler {
	return &LocationsHandler{repo: repo}
}

func (h *LocationsHandler) List(ctx *gin.Context) {
	locs, err := h.repo.List(ctx.Request.Context())
	if err != nil {
		RespondInternal(ctx, "Could not list locations")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": locs,
		"count": len(locs),
	})
}

func (h *LocationsHandler) Create(ctx *gin.Context) {
	var req location.CreateLocationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	loc, err := h.repo.Create(ctx.Request.Context(), req)
	if err != nil {
		if !respondDomainError(ctx, err) {
			RespondInternal(ctx, "Could not create location")
		}
		return
	}

	ctx.JSON(http.StatusCreated, loc)
}

func (h *LocationsHandler) Delete(ctx *gin.Context) {
	err := h.repo.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if !respondDomainError(ctx, err) {
			RespondInternal(ctx, "Could not delete location")
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
