package domain

import "time"

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	ContractNew        ContractStatus = "new"
	ContractInProgress ContractStatus = "in_progress"
	ContractTerminated ContractStatus = "terminated"
)

// Contract binds one client to one contractor.
type Contract struct {
	ID           int64
	ClientID     int64
	ContractorID int64
	Terms        string
	Status       ContractStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasParticipant reports whether profileID is the client or the contractor.
func (c *Contract) HasParticipant(profileID int64) bool {
	return c.ClientID == profileID || c.ContractorID == profileID
}

// IsActive reports whether jobs under the contract may be paid.
func (c *Contract) IsActive() bool {
	return c.Status == ContractInProgress
}
