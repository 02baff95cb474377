package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

type StockHandler struct {
	Handler
	service port.Service
}

func NewStockHandler(service port.Service, logger *zap.Logger) (*StockHandler, error) {
	return &StockHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type stockResponse struct {
	ProductID         uuid.UUID `json:"product_id"`
	AvailableQuantity int32     `json:"available_quantity"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (sh *StockHandler) GetStock(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		sh.handleValidationError(ctx, err)
		return
	}

	stock, err := sh.service.GetStock(ctx, actorFrom(ctx), productID)
	if err != nil {
		sh.handleError(ctx, err)
		return
	}

	sh.handleSuccess(ctx, stockResponse{
		ProductID:         stock.ProductID,
		AvailableQuantity: stock.AvailableQuantity,
		UpdatedAt:         stock.UpdatedAt,
	})
}

type setStockRequest struct {
	Quantity *int32 `json:"quantity" binding:"required"`
}

func (sh *StockHandler) SetStock(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		sh.handleValidationError(ctx, err)
		return
	}

	req := setStockRequest{}
	err = ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		sh.handleValidationError(ctx, err)
		return
	}

	stock, err := sh.service.SetStock(ctx, actorFrom(ctx), productID, *req.Quantity)
	if err != nil {
		sh.handleError(ctx, err)
		return
	}

	sh.handleSuccess(ctx, stockResponse{
		ProductID:         stock.ProductID,
		AvailableQuantity: stock.AvailableQuantity,
		UpdatedAt:         stock.UpdatedAt,
	})
}
