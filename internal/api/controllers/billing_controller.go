package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"saasbase/internal/models/request_models"
	"saasbase/internal/models/response_models"
	"saasbase/internal/plans"
	"saasbase/internal/services"
	"saasbase/pkg/utils"
)

type BillingController struct {
	checkoutService services.CheckoutService
	portalService   services.PortalService
	tenantService   services.TenantServiceInterface
}

func NewBillingController(
	checkoutService services.CheckoutService,
	portalService services.PortalService,
	tenantService services.TenantServiceInterface) *BillingController {
	return &BillingController{
		checkoutService: checkoutService,
		portalService:   portalService,
		tenantService:   tenantService,
	}
}

// CreateCheckout godoc
// @Summary Open a subscription checkout flow for the caller's tenant
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutRequest true "Checkout Request"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/checkout [post]
func (b *BillingController) CreateCheckout(c *gin.Context) {
	var request request_models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "user_id is required")
		return
	}

	tenant, err := b.tenantService.GetTenantByOwner(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	resp, err := b.checkoutService.CreateCheckout(c.Request.Context(), tenant.ID.String(), request.PlanCode, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Checkout session created")
}

// CreatePortal godoc
// @Summary Open a self-service billing portal for the caller's tenant
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/portal [post]
func (b *BillingController) CreatePortal(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "user_id is required")
		return
	}

	tenant, err := b.tenantService.GetTenantByOwner(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	resp, err := b.portalService.CreatePortalSession(c.Request.Context(), tenant.ID.String(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Portal session created")
}

// ListPlans godoc
// @Summary List the subscription plan catalog
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /billing/plans [get]
func (b *BillingController) ListPlans(c *gin.Context) {
	catalog := plans.All()
	out := make([]response_models.PlanResponse, 0, len(catalog))
	for _, p := range catalog {
		out = append(out, response_models.PlanResponse{
			Code:        p.Code,
			Nickname:    p.Nickname,
			Tier:        string(p.Tier),
			AmountMinor: p.AmountMinor,
			Currency:    p.Currency,
			Interval:    p.Interval,
			TrialDays:   p.TrialDays,
			Description: p.Description,
			Features:    p.Features,
			Limits:      p.Limits,
		})
	}

	utils.RespondSuccess(c, out, "")
}
