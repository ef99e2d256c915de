package request

// ChangePlanRequest represents a subscription plan change request
type ChangePlanRequest struct {
	PlanID string `json:"plan_id" binding:"required,oneof=free pro business"`
}
