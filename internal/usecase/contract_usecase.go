package usecase

import (
	"context"

	"github.com/iho/jobledger/internal/domain"
)

// ContractUseCase handles contract reads for participants.
type ContractUseCase struct {
	contractRepo ContractRepository
}

// NewContractUseCase creates a new ContractUseCase.
func NewContractUseCase(contractRepo ContractRepository) *ContractUseCase {
	return &ContractUseCase{contractRepo: contractRepo}
}

// GetContract returns a contract the acting profile takes part in.
func (uc *ContractUseCase) GetContract(ctx context.Context, id, actingProfileID int64) (*domain.Contract, error) {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := EnsureParticipant(contract, actingProfileID); err != nil {
		return nil, err
	}

	return contract, nil
}

// ListActiveContracts lists non-terminated contracts of a profile.
func (uc *ContractUseCase) ListActiveContracts(ctx context.Context, profileID int64) ([]*domain.Contract, error) {
	if err := domain.ValidateProfileID(profileID); err != nil {
		return nil, err
	}

	return uc.contractRepo.ListActiveByProfile(ctx, profileID)
}

// JobUseCase handles job reads.
type JobUseCase struct {
	jobRepo JobRepository
}

// NewJobUseCase creates a new JobUseCase.
func NewJobUseCase(jobRepo JobRepository) *JobUseCase {
	return &JobUseCase{jobRepo: jobRepo}
}

// ListUnpaidJobs lists unpaid jobs on the profile's in_progress contracts,
// whichever side of the contract the profile is on.
func (uc *JobUseCase) ListUnpaidJobs(ctx context.Context, profileID int64) ([]*domain.Job, error) {
	if err := domain.ValidateProfileID(profileID); err != nil {
		return nil, err
	}

	return uc.jobRepo.ListUnpaidByProfile(ctx, profileID)
}
