package handler

import (
	"net/http"
	"time"

	"github.com/ByEilerDev/carsil-root/internal/apierror"
	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByID(c *gin.Context) {
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

// Search matches op, reference and description: /v1/products/search?q=POLO
func (h *ProductsHandler) Search(c *gin.Context) {
	resp, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByOp(c *gin.Context) {
	resp, err := h.svc.GetByOp(c.Request.Context(), c.Param("op"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByDateRange filters on plantEntryDate: /v1/products/by-date-range?start=2026-01-01&end=2026-01-31
func (h *ProductsHandler) GetByDateRange(c *gin.Context) {
	var filter dto.DateRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return
	}
	if err := validate.Struct(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("start y end deben ser fechas YYYY-MM-DD"))
		return
	}
	start, _ := time.Parse(dto.DateLayout, filter.Start)
	end, _ := time.Parse(dto.DateLayout, filter.End)
	resp, err := h.svc.GetByDateRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Crea una orden de produccion (OP)
// @Tags products
// @Accept json
// @Produce json
// @Param body body dto.CreateProductRequest true "Orden"
// @Success 201 {object} dto.ProductResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
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

// Update godoc
// @Summary Actualizacion completa de una orden
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param body body dto.UpdateProductRequest true "Campos a aplicar"
// @Success 200 {object} dto.ProductResponse
// @Failure 409 {object} apierror.APIError "op duplicada o modificacion concurrente"
// @Router /v1/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
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

// PartialUpdate takes a free-form key set; the service validates it against
// the allow-list of patchable fields.
func (h *ProductsHandler) PartialUpdate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return
	}
	resp, err := h.svc.PartialUpdate(c.Request.Context(), id, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IncrementMade applies a signed delta to the made counter. Zero is allowed;
// the field itself must be present.
func (h *ProductsHandler) IncrementMade(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.MadeDeltaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Delta == nil {
		c.JSON(http.StatusBadRequest, apierror.New("delta es requerido"))
		return
	}
	resp, err := h.svc.IncrementMade(c.Request.Context(), id, *req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetMade moves the counter to an absolute value.
func (h *ProductsHandler) SetMade(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetMadeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.QuantityMade == nil {
		c.JSON(http.StatusBadRequest, apierror.New("quantityMade es requerido"))
		return
	}
	resp, err := h.svc.SetMade(c.Request.Context(), id, *req.QuantityMade)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
