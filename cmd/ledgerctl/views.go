package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/usecase"
)

type jobView struct {
	ID          int64           `json:"id"`
	ContractID  int64           `json:"contract_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

func newJobView(j *domain.Job) jobView {
	return jobView{
		ID:          j.ID,
		ContractID:  j.ContractID,
		Description: j.Description,
		Price:       j.Price,
		Paid:        j.Paid,
		PaymentDate: j.PaymentDate,
	}
}

type paymentView struct {
	Job               jobView         `json:"job"`
	ClientBalance     decimal.Decimal `json:"client_balance"`
	ContractorBalance decimal.Decimal `json:"contractor_balance"`
}

type transferView struct {
	Reference   string          `json:"reference"`
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
}

type contractView struct {
	ID           int64                 `json:"id"`
	ClientID     int64                 `json:"client_id"`
	ContractorID int64                 `json:"contractor_id"`
	Terms        string                `json:"terms"`
	Status       domain.ContractStatus `json:"status"`
}

func newContractView(c *domain.Contract) contractView {
	return contractView{
		ID:           c.ID,
		ClientID:     c.ClientID,
		ContractorID: c.ContractorID,
		Terms:        c.Terms,
		Status:       c.Status,
	}
}

type driftView struct {
	ProfileID    int64           `json:"profile_id"`
	Balance      decimal.Decimal `json:"balance"`
	EntryBalance decimal.Decimal `json:"entry_balance"`
}

type consistencyView struct {
	Consistent  bool            `json:"consistent"`
	TransferNet decimal.Decimal `json:"transfer_net"`
	Drift       []driftView     `json:"drift"`
	CheckedAt   time.Time       `json:"checked_at"`
}

func newConsistencyView(r *usecase.ConservationReport) consistencyView {
	drift := make([]driftView, 0, len(r.Drift))
	for _, d := range r.Drift {
		drift = append(drift, driftView{ProfileID: d.ProfileID, Balance: d.Balance, EntryBalance: d.EntryBalance})
	}

	return consistencyView{
		Consistent:  r.Consistent,
		TransferNet: r.TransferNet,
		Drift:       drift,
		CheckedAt:   r.CheckedAt,
	}
}

type entryView struct {
	ID              string           `json:"id"`
	ReferenceID     string           `json:"reference_id"`
	Kind            domain.EntryKind `json:"kind"`
	Amount          decimal.Decimal  `json:"amount"`
	PreviousBalance decimal.Decimal  `json:"previous_balance"`
	CurrentBalance  decimal.Decimal  `json:"current_balance"`
	CreatedAt       time.Time        `json:"created_at"`
}

type statementView struct {
	ProfileID int64           `json:"profile_id"`
	Name      string          `json:"name"`
	Role      domain.Role     `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	Entries   []entryView     `json:"entries"`
}

func newStatementView(s *usecase.Statement) statementView {
	entries := make([]entryView, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, entryView{
			ID:              e.ID,
			ReferenceID:     e.ReferenceID,
			Kind:            e.Kind,
			Amount:          e.Amount,
			PreviousBalance: e.PreviousBalance,
			CurrentBalance:  e.CurrentBalance,
			CreatedAt:       e.CreatedAt,
		})
	}

	return statementView{
		ProfileID: s.Profile.ID,
		Name:      s.Profile.FirstName + " " + s.Profile.LastName,
		Role:      s.Profile.Role,
		Balance:   s.Profile.Balance,
		Entries:   entries,
	}
}
