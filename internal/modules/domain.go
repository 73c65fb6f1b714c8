package modules

import "time"

// Definition describes a workspace module offered by the platform.
type Definition struct {
	ID          int64
	Code        string
	DisplayName string
	IsActive    bool
}

// CompanyModule records a company's enablement of a module. A module is
// usable by a company only while Enabled and IsActive are both true.
type CompanyModule struct {
	ID        int64
	CompanyID int64
	ModuleID  int64
	Code      string
	Enabled   bool
	IsActive  bool
	EnabledAt time.Time
}
