package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/revorbit/auto-frames/internal/models"
	service "github.com/revorbit/auto-frames/internal/services"
	"github.com/revorbit/auto-frames/internal/utils"
	"github.com/revorbit/auto-frames/internal/utils/response"
)

type DesignHandler struct {
	designService service.DesignService
	validator     *validator.Validate
}

func NewDesignHandler(designService service.DesignService) *DesignHandler {
	return &DesignHandler{designService: designService, validator: validator.New()}
}

// StudioOptions godoc
//
//	@Summary		Design studio options
//	@Description	Frame styles, materials and the surcharge tables used to quote a design.
//	@Tags			Studio
//	@Produce		json
//	@Success		200	{object}	pricing.StudioOptions
//	@Router			/studio/options [get]
func (h *DesignHandler) StudioOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.designService.Options())
	}
}

// CreateDesign godoc
//
//	@Summary		Save a design draft
//	@Description	Prices the configuration server-side and sanitises the personalization text.
//	@Tags			Studio
//	@Accept			json
//	@Produce		json
//	@Param			design	body		models.SaveDesignRequest	true	"Design configuration"
//	@Success		201		{object}	models.Design
//	@Failure		400		{object}	response.ErrorResponse	"Unknown frame style or material"
//	@Security		BearerAuth
//	@Router			/designs [post]
func (h *DesignHandler) CreateDesign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		var req models.SaveDesignRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid design input")
			return
		}

		design, err := h.designService.SaveDesign(r.Context(), claims.UserID, nil, &req)
		if err != nil {
			logger.Error("Failed to save design", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Design saved", slog.String("designID", design.ID.String()))
		response.Success(w, http.StatusCreated, design)
	}
}

// UpdateDesign godoc
//
//	@Summary		Update a design draft
//	@Description	Only drafts can be edited; an ordered design is locked.
//	@Tags			Studio
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Design ID"	Format(uuid)
//	@Param			design	body		models.SaveDesignRequest	true	"Design configuration"
//	@Success		200		{object}	models.Design
//	@Failure		404		{object}	response.ErrorResponse	"Design not found or no longer editable"
//	@Security		BearerAuth
//	@Router			/designs/{id} [put]
func (h *DesignHandler) UpdateDesign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid design id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.SaveDesignRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid design input")
			return
		}

		design, err := h.designService.SaveDesign(r.Context(), claims.UserID, &id, &req)
		if err != nil {
			logger.Error("Failed to update design", slog.String("designID", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, design)
	}
}

// GetDesign godoc
//
//	@Summary	Get a design with its quoted price
//	@Tags		Studio
//	@Produce	json
//	@Param		id	path		string	true	"Design ID"	Format(uuid)
//	@Success	200	{object}	models.Design
//	@Failure	404	{object}	response.ErrorResponse	"Design not found"
//	@Security	BearerAuth
//	@Router		/designs/{id} [get]
func (h *DesignHandler) GetDesign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid design id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		design, err := h.designService.GetDesign(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Warn("Failed to get design", slog.String("designID", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, design)
	}
}

// ListDesigns godoc
//
//	@Summary	List saved designs
//	@Tags		Studio
//	@Produce	json
//	@Success	200	{array}	models.Design
//	@Security	BearerAuth
//	@Router		/designs [get]
func (h *DesignHandler) ListDesigns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r)
		if !ok {
			return
		}

		designs, err := h.designService.ListDesigns(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to list designs", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, designs)
	}
}
