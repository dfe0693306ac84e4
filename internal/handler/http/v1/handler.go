package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"travelguide/internal/config"
	"travelguide/internal/models"
	"travelguide/internal/service"
	"travelguide/internal/store"
)

type Handler struct {
	locationService service.LocationService
	sessionService  service.SessionService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(locationService service.LocationService, sessionService service.SessionService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		locationService: locationService,
		sessionService:  sessionService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary List locations
// @Description Get the visible subset of locations filtered by search term and selected categories.
// @Tags Locations
// @Accept json
// @Produce json
// @Param search query string false "Case-insensitive substring matched against name or description"
// @Param category query []string false "Selected categories (repeatable)" collectionFormat(multi)
// @Success 200 {array} LocationResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations [get]
func (h *Handler) listLocations(c *gin.Context) {
	log := h.logger.WithField("method", "listLocations")

	search := c.Query("search")
	categories := make([]models.Category, 0)
	for _, label := range c.QueryArray("category") {
		categories = append(categories, models.Category(label))
	}

	locations, err := h.locationService.ListLocations(c.Request.Context(), search, categories)
	if err != nil {
		log.WithError(err).Error("Failed to list locations from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToLocationResponses(locations))
}

// @Summary Get location by ID
// @Description Get a single location by its ID.
// @Tags Locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} LocationResponse
// @Failure 400 {object} map[string]string "Invalid location ID"
// @Failure 404 {object} map[string]string "Location not found"
// @Router /locations/{id} [get]
func (h *Handler) getLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}
	log := h.logger.WithField("method", "getLocation").WithField("id", id)

	location, err := h.locationService.GetLocation(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get location from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToLocationResponse(location))
}

// @Summary Create a new location
// @Description Create a new location. Unknown categories are dropped and empty selections coerced to defaults. Requires an admin session.
// @Tags Locations
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param location body CreateLocationRequest true "Location creation request"
// @Success 201 {object} LocationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations [post]
func (h *Handler) createLocation(c *gin.Context) {
	var input CreateLocationRequest
	log := h.logger.WithField("method", "createLocation")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToLocationModel(input)
	created, err := h.locationService.CreateLocation(c.Request.Context(), model)
	if err != nil {
		log.WithError(err).Error("Failed to create location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToLocationResponse(created))
}

// @Summary Update an existing location
// @Description Replace a location record wholesale by ID. No upsert: an unknown ID yields 404. Requires an admin session.
// @Tags Locations
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path int true "Location ID"
// @Param location body UpdateLocationRequest true "Location update request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid location ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Location not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations/{id} [put]
func (h *Handler) updateLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}
	log := h.logger.WithField("method", "updateLocation").WithField("id", id)

	var input UpdateLocationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToLocationModel(input)
	model.ID = id

	if err := h.locationService.UpdateLocation(c.Request.Context(), model); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		log.WithError(err).Error("Failed to update location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Delete a location
// @Description Delete a location by its ID. Deleting an absent ID is a no-op and still yields 204. Requires an admin session.
// @Tags Locations
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path int true "Location ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid location ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations/{id} [delete]
func (h *Handler) deleteLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location ID"})
		return
	}
	log := h.logger.WithField("method", "deleteLocation").WithField("id", id)

	if err := h.locationService.DeleteLocation(c.Request.Context(), id); err != nil {
		log.WithError(err).Error("Failed to delete location in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Export the collection
// @Description Download the full collection as a locations.json document, structurally identical to the seed resource. Requires an admin session.
// @Tags Locations
// @Accept json
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.Document
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations/export [get]
func (h *Handler) exportLocations(c *gin.Context) {
	log := h.logger.WithField("method", "exportLocations")

	doc, err := h.locationService.ExportLocations(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to export locations from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename=locations.json`)
	c.JSON(http.StatusOK, doc)
}

// @Summary Get collection statistics
// @Description Get the total record count and per-category counts.
// @Tags Locations
// @Accept json
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /locations/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.locationService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	byCategory := make(map[string]int, len(stats.ByCategory))
	for cat, count := range stats.ByCategory {
		byCategory[string(cat)] = count
	}
	c.JSON(http.StatusOK, StatsResponse{Total: stats.Total, ByCategory: byCategory})
}

// @Summary Admin login
// @Description Exchange the admin password for a session token. No lockout or rate limiting.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.Login(c.Request.Context(), input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}
		log.WithError(err).Error("Failed to create session in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// @Summary Check session status
// @Description Report whether the presented session token is still active. Used by the SPA on page reload.
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} SessionStatusResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/session [get]
func (h *Handler) sessionStatus(c *gin.Context) {
	log := h.logger.WithField("method", "sessionStatus")

	active, err := h.sessionService.Verify(c.Request.Context(), sessionToken(c))
	if err != nil {
		log.WithError(err).Error("Failed to verify session in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, SessionStatusResponse{Active: active})
}

// @Summary Admin logout
// @Description Close the admin session: the session marker and the persisted collection are cleared and the store reloads from the seed resource. Requires an admin session.
// @Tags Auth
// @Accept json
// @Produce json
// @Security SessionAuth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	log := h.logger.WithField("method", "logout")

	if err := h.sessionService.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		log.WithError(err).Error("Failed to close session in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
