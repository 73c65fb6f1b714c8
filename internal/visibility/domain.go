package visibility

// Level governs who can see a record, independent of permission checks.
type Level string

const (
	// LevelOwner restricts the record to its owner.
	LevelOwner Level = "owner"
	// LevelTeam opens the record to the owner's team.
	LevelTeam Level = "team"
	// LevelCompany opens the record to every user in the company.
	LevelCompany Level = "company"
	// LevelShared opens the record to an explicit user list.
	LevelShared Level = "shared"
)

// Record is the visibility view of a domain record. Zero OwnerID or
// TeamID means the field is unset.
type Record struct {
	CompanyID  int64
	OwnerID    int64
	TeamID     int64
	Visibility Level
	SharedWith []int64
}

// Resource is implemented by domain records that can be filtered.
type Resource interface {
	VisibilityRecord() Record
}
