package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ByEilerDev/carsil-root/internal/apierror"
	"github.com/ByEilerDev/carsil-root/internal/dto"
	"github.com/ByEilerDev/carsil-root/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Short TTL: progress moves during a shift, so stale answers age out fast.
const opCacheTTL = 5 * time.Minute

// OpStatusHandler serves the public OP progress lookup. No authentication
// required and no side effects beyond the cache write.
type OpStatusHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewOpStatusHandler(repo repository.ProductRepository, rdb *redis.Client) *OpStatusHandler {
	return &OpStatusHandler{repo: repo, rdb: rdb}
}

// GetByOp godoc
// @Summary Consulta publica del avance de una OP (sin autenticacion)
// @Tags ops
// @Produce json
// @Param op path string true "Codigo de OP"
// @Success 200 {object} dto.OpStatusResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ops/{op} [get]
func (h *OpStatusHandler) GetByOp(c *gin.Context) {
	op := c.Param("op")
	ctx := c.Request.Context()
	cacheKey := "op:" + op

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.OpStatusResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	products, err := h.repo.FindByOp(ctx, op)
	if err != nil || len(products) == 0 {
		c.JSON(http.StatusNotFound, apierror.New("OP no encontrada"))
		return
	}

	p := products[0]
	var brand *string
	if p.Brand != nil {
		s := string(*p.Brand)
		brand = &s
	}
	resp := dto.OpStatusResponse{
		Op:           p.Op,
		Status:       string(p.Status),
		Quantity:     p.Quantity,
		QuantityMade: p.QuantityMade,
		Missing:      p.Missing,
		Brand:        brand,
		Reference:    p.Reference,
	}

	// Populate cache, best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, opCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
