package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"saasbase/internal/models/request_models"
	"saasbase/internal/services"
	"saasbase/pkg/utils"
)

type TenantController struct {
	tenantService services.TenantServiceInterface
}

func NewTenantController(tenantService services.TenantServiceInterface) *TenantController {
	return &TenantController{
		tenantService: tenantService,
	}
}

func (t *TenantController) CreateTenant(c *gin.Context) {
	var request request_models.CreateTenantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid_request", "Name is required")
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "user_id is required")
		return
	}

	tenant, err := t.tenantService.CreateTenant(c.Request.Context(), request.Name, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, tenant, "Tenant created successfully")
}

func (t *TenantController) GetMyTenant(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "user_id is required")
		return
	}

	tenant, err := t.tenantService.GetTenantByOwner(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, tenant, "")
}

func (t *TenantController) GetTenantByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "user_id is required")
		return
	}

	tenant, err := t.tenantService.GetTenantByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, tenant, "")
}

func (t *TenantController) RenameTenant(c *gin.Context) {
	var request request_models.RenameTenantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid_request", "Name is required")
		return
	}

	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, "unauthenticated", "user_id is required")
		return
	}

	if err := t.tenantService.RenameTenant(c.Request.Context(), c.Param("id"), request.Name, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Tenant renamed successfully")
}
