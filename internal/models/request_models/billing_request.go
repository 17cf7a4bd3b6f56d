package request_models

type CreateCheckoutRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}

type CreatePortalRequest struct {
	// Intentionally empty: the tenant is resolved server-side from the
	// session, never trusted from client input.
}

type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameTenantRequest struct {
	Name string `json:"name" binding:"required"`
}
