package handler

import (
	"net/http"

	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/service"

	"github.com/gin-gonic/gin"
)

type TeamsHandler struct{ svc service.TeamService }

func NewTeamsHandler(svc service.TeamService) *TeamsHandler { return &TeamsHandler{svc: svc} }

// List godoc
// @Summary Lista todos los equipos de produccion
// @Tags teams
// @Produce json
// @Success 200 {array} dto.TeamResponse
// @Router /v1/teams [get]
func (h *TeamsHandler) List(c *gin.Context) {
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TeamsHandler) GetByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByName matches by name substring, case-insensitive: /v1/teams/by-name?name=modulo
func (h *TeamsHandler) GetByName(c *gin.Context) {
	resp, err := h.svc.GetByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Crea un equipo de produccion
// @Tags teams
// @Accept json
// @Produce json
// @Param body body dto.CreateTeamRequest true "Equipo"
// @Success 201 {object} dto.TeamResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/teams [post]
func (h *TeamsHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TeamsHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTeamRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TeamsHandler) UpdatePeople(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePeopleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePeople(c.Request.Context(), id, req.NumPersons)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TeamsHandler) GetProducts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignProduct re-parents an order onto this team and returns the team with
// its recomputed totalLoadDays.
func (h *TeamsHandler) AssignProduct(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	productID, ok := idParam(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.AssignProduct(c.Request.Context(), teamID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
