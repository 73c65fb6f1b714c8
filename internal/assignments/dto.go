package assignments

import "time"

type grantRoleRequest struct {
	UserID    int64      `json:"user_id" validate:"required,gt=0"`
	RoleCode  string     `json:"role_code" validate:"required,max=100"`
	CompanyID int64      `json:"company_id" validate:"gte=0"`
	Module    string     `json:"module,omitempty" validate:"omitempty,max=50"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type revokeRoleRequest struct {
	UserID    int64  `json:"user_id" validate:"required,gt=0"`
	RoleCode  string `json:"role_code" validate:"required,max=100"`
	CompanyID int64  `json:"company_id" validate:"gte=0"`
	Module    string `json:"module,omitempty" validate:"omitempty,max=50"`
}

type createOverrideRequest struct {
	TargetType string     `json:"target_type" validate:"required,oneof=user team company"`
	TargetID   int64      `json:"target_id" validate:"required,gt=0"`
	CompanyID  int64      `json:"company_id" validate:"gte=0"`
	Permission string     `json:"permission" validate:"required,max=100"`
	Module     string     `json:"module,omitempty" validate:"omitempty,max=50"`
	Action     string     `json:"action" validate:"required,oneof=grant deny"`
	Reason     string     `json:"reason,omitempty" validate:"max=500"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type assignmentResponse struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	RoleCode  string     `json:"role_code"`
	CompanyID int64      `json:"company_id,omitempty"`
	Module    string     `json:"module,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type overrideResponse struct {
	ID         int64      `json:"id"`
	TargetType string     `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	CompanyID  int64      `json:"company_id,omitempty"`
	Permission string     `json:"permission"`
	Module     string     `json:"module,omitempty"`
	Action     string     `json:"action"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
