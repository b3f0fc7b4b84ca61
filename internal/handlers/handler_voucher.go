package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/acctsys/voucherledger/internal/apperrors"
	"github.com/acctsys/voucherledger/internal/core/domain"
	portssvc "github.com/acctsys/voucherledger/internal/core/ports/services"
	"github.com/acctsys/voucherledger/internal/dto"
	"github.com/acctsys/voucherledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests for VP and CV transactions.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{
		voucherService: vs,
	}
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("/payable", h.createVoucherPayable)
		vouchers.POST("/check", h.createCheckVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/next-number", h.nextNumber)
		vouchers.GET("/:number", h.getTransaction)
		vouchers.POST("/:number/void", h.voidTransaction)
		vouchers.GET("/:number/balance", h.validateBalance)
		vouchers.GET("/:number/subsidiary-balance", h.validateSubsidiaryTotal)
	}
}

// pathNumber validates the :number path parameter against the document
// number format before any lookup reaches the repository.
func pathNumber(c *gin.Context) (string, bool) {
	number := c.Param("number")
	if _, _, err := domain.ParseVoucherNumber(number); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document number: " + number})
		return "", false
	}
	return number, true
}

// writeCreateError maps a failed create to the structured create response.
func writeCreateError(c *gin.Context, logger *slog.Logger, err error) {
	resp := dto.CreateVoucherResponse{Success: false, Message: err.Error()}
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalanced):
		logger.Warn("Voucher rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Voucher references unknown entity", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, resp)
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Voucher conflicts with current state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, resp)
	default:
		logger.Error("Failed to create voucher", slog.String("error", err.Error()))
		resp.Message = "Failed to create voucher"
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func (h *voucherHandler) createVoucherPayable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherPayableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucherPayable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.CreateVoucherResponse{Success: false, Message: "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger.Info("Received request to create voucher payable",
		slog.String("payee_code", req.PayeeCode),
		slog.String("actor", actor))

	header, err := h.voucherService.CreateVoucherPayable(c.Request.Context(), req, actor)
	if err != nil {
		writeCreateError(c, logger, err)
		return
	}

	logger.Info("Voucher payable created", slog.String("number", header.Number))
	c.JSON(http.StatusCreated, dto.CreateVoucherResponse{
		Success: true,
		Message: "Voucher payable " + header.Number + " created",
		Number:  header.Number,
	})
}

func (h *voucherHandler) createCheckVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCheckVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCheckVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.CreateVoucherResponse{Success: false, Message: "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger.Info("Received request to create check voucher",
		slog.String("payee_code", req.PayeeCode),
		slog.String("vp_number", req.VPNumber),
		slog.String("actor", actor))

	header, err := h.voucherService.CreateCheckVoucher(c.Request.Context(), req, actor)
	if err != nil {
		writeCreateError(c, logger, err)
		return
	}

	logger.Info("Check voucher created", slog.String("number", header.Number))
	c.JSON(http.StatusCreated, dto.CreateVoucherResponse{
		Success: true,
		Message: "Check voucher " + header.Number + " created",
		Number:  header.Number,
	})
}

func (h *voucherHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number, ok := pathNumber(c)
	if !ok {
		return
	}

	detail, err := h.voucherService.GetTransaction(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found", slog.String("number", number))
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionDetailResponse(detail))
}

func (h *voucherHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number, ok := pathNumber(c)
	if !ok {
		return
	}

	var req dto.VoidVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoidTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Void reason is required: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger.Info("Received request to void transaction", slog.String("number", number), slog.String("actor", actor))

	err := h.voucherService.VoidTransaction(c.Request.Context(), number, req.Reason, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrAlreadyVoid):
			c.JSON(http.StatusConflict, gin.H{"error": "Transaction is already void"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to void transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to void transaction"})
		}
		return
	}

	logger.Info("Transaction voided", slog.String("number", number))
	c.JSON(http.StatusOK, gin.H{"message": "Transaction " + number + " voided"})
}

func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.voucherService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list vouchers", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vouchers"})
		}
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *voucherHandler) nextNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	kind := domain.VoucherKind(c.Query("kind"))
	if !domain.ValidVoucherKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be VP or CV"})
		return
	}

	year := time.Now().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a positive integer"})
			return
		}
		year = parsed
	}

	number, err := h.voucherService.NextNumber(c.Request.Context(), kind, year)
	if err != nil {
		logger.Error("Failed to compute next number", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute next number"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kind": kind, "year": year, "number": number})
}

func (h *voucherHandler) validateBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number, ok := pathNumber(c)
	if !ok {
		return
	}

	check, err := h.voucherService.ValidateBalance(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to validate balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate balance"})
		}
		return
	}

	c.JSON(http.StatusOK, check)
}

func (h *voucherHandler) validateSubsidiaryTotal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number, ok := pathNumber(c)
	if !ok {
		return
	}

	accountCode := c.Query("accountCode")
	if accountCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountCode query parameter is required"})
		return
	}

	check, err := h.voucherService.ValidateSubsidiaryTotal(c.Request.Context(), number, accountCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to validate subsidiary total", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate subsidiary total"})
		}
		return
	}

	c.JSON(http.StatusOK, check)
}
