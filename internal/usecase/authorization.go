package usecase

import "github.com/iho/jobledger/internal/domain"

// EnsureParticipant fails with an unauthorized error unless the acting
// profile is the contract's client or contractor.
func EnsureParticipant(contract *domain.Contract, actingProfileID int64) error {
	if contract == nil || !contract.HasParticipant(actingProfileID) {
		return domain.Unauthorized("profile %d is not a participant of the contract", actingProfileID)
	}

	return nil
}

// EnsureClient narrows EnsureParticipant to the paying side of the contract.
func EnsureClient(contract *domain.Contract, actingProfileID int64) error {
	if err := EnsureParticipant(contract, actingProfileID); err != nil {
		return err
	}

	if contract.ClientID != actingProfileID {
		return domain.Unauthorized("profile %d is not the client of contract %d", actingProfileID, contract.ID)
	}

	return nil
}
