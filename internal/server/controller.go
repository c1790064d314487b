package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/sale-sailor/internal/models"
	"github.com/nguyentranbao-ct/sale-sailor/internal/usecase"
	"github.com/nguyentranbao-ct/sale-sailor/pkg/logger"
	"go.uber.org/zap"
)

type Controller interface {
	Health(c echo.Context) error
	ListVendors(c echo.Context, req ListVendorsRequest) ([]models.VendorInfo, error)
	GetVendorSales(c echo.Context, req VendorSalesRequest) (*models.VendorSales, error)
	SweepSales(c echo.Context, req SweepSalesRequest) ([]models.SweepResult, error)
}

type ListVendorsRequest struct{}

type VendorSalesRequest struct {
	Vendor         string `param:"vendor" validate:"required"`
	Location       string `query:"location" validate:"max=32,location"`
	HeaderLocation string `header:"x-location" validate:"max=32,location"`
	Publish        bool   `query:"publish"`
}

type SweepSalesRequest struct {
	Location       string `query:"location" validate:"max=32,location"`
	HeaderLocation string `header:"x-location" validate:"max=32,location"`
}

// locationOf prefers the query parameter over the x-location header.
func locationOf(query, header string) string {
	if query != "" {
		return query
	}
	return header
}

type controller struct {
	saleUsecase usecase.SaleUsecase
	log         *zap.SugaredLogger
}

func NewHandler(saleUsecase usecase.SaleUsecase) Controller {
	return &controller{
		saleUsecase: saleUsecase,
		log:         logger.MustNamed("controller"),
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sale-sailor",
	})
}

func (h *controller) ListVendors(c echo.Context, _ ListVendorsRequest) ([]models.VendorInfo, error) {
	return h.saleUsecase.ListVendors(), nil
}

func (h *controller) GetVendorSales(c echo.Context, req VendorSalesRequest) (*models.VendorSales, error) {
	ctx := c.Request().Context()
	sales, err := h.saleUsecase.GetSaleProducts(ctx, req.Vendor, locationOf(req.Location, req.HeaderLocation))
	if err != nil {
		return nil, err
	}

	if req.Publish {
		// the fetch already succeeded; a publish failure is only logged
		if err := h.saleUsecase.Publish(ctx, sales); err != nil {
			logger.Ctx(ctx, h.log).Errorw("failed to publish sales", "vendor", sales.Key, "error", err)
		}
	}
	return sales, nil
}

func (h *controller) SweepSales(c echo.Context, req SweepSalesRequest) ([]models.SweepResult, error) {
	return h.saleUsecase.SweepAll(c.Request().Context(), locationOf(req.Location, req.HeaderLocation))
}
