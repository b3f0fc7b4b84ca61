package handlers

import (
	"github.com/acctsys/voucherledger/internal/core/domain"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerHomeRoutes(v1)
	registerAccountRoutes(v1, services.Account)
	registerVoucherRoutes(v1, services.Voucher)
	registerReportingRoutes(v1, services.Reporting)
}

// registerCustomValidators installs the voucherkind binding rule used by the
// listing query parameters.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("voucherkind", func(fl validator.FieldLevel) bool {
		return domain.ValidVoucherKind(domain.VoucherKind(fl.Field().String()))
	})
}
