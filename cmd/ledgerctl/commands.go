package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/infrastructure/postgres"
	"github.com/iho/jobledger/internal/usecase"
)

func (a *app) rootCmd() *cobra.Command {
	var profileID int64

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Marketplace ledger operations",
		Long:          `ledgerctl pays jobs, admits deposits and inspects the marketplace ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Int64Var(&profileID, "profile", 0, "ID of the acting profile")

	root.AddCommand(
		a.migrateCmd(),
		a.payCmd(&profileID),
		a.depositCmd(),
		a.transferCmd(),
		a.contractsCmd(&profileID),
		a.jobsCmd(&profileID),
		a.ledgerCmd(),
	)

	return root
}

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, a.logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return postgres.RunMigrationsDown(a.cfg.DatabaseURL, a.cfg.MigrationsPath, a.logger)
			},
		},
	)

	return cmd
}

func (a *app) payCmd(profileID *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <job-id>",
		Short: "Pay a job from the acting client's balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseID("job id", args[0])
			if err != nil {
				return err
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.payments.PayJob(cmd.Context(), jobID, *profileID)
			if err != nil {
				return err
			}

			a.logger.Info().Int64("job_id", jobID).Int64("client_id", *profileID).Msg("job paid")

			return printJSON(cmd.OutOrStdout(), paymentView{
				Job:               newJobView(result.Job),
				ClientBalance:     result.ClientBalance,
				ContractorBalance: result.ContractorBalance,
			})
		},
	}
}

func (a *app) depositCmd() *cobra.Command {
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "deposit <client-id> <amount>",
		Short: "Deposit into a client's balance, capped at 25% of its unpaid work",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := parseID("client id", args[0])
			if err != nil {
				return err
			}

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.deposits.AdmitDeposit(cmd.Context(), usecase.AdmitDepositInput{
				ClientID:       clientID,
				Amount:         amount,
				IdempotencyKey: idempotencyKey,
			})
			if err != nil {
				return err
			}

			a.logger.Info().Int64("client_id", clientID).Msg("deposit admitted")

			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Replay-safe key; requires REDIS_URL")

	return cmd
}

func (a *app) transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <from-id> <to-id> <amount>",
		Short: "Move funds between two profiles",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromID, err := parseID("source id", args[0])
			if err != nil {
				return err
			}

			toID, err := parseID("target id", args[1])
			if err != nil {
				return err
			}

			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.ledger.TransferFunds(cmd.Context(), fromID, toID, amount)
			if err != nil {
				return err
			}

			a.logger.Info().Str("reference", result.Reference).Msg("funds transferred")

			return printJSON(cmd.OutOrStdout(), transferView{
				Reference:   result.Reference,
				FromBalance: result.FromBalance,
				ToBalance:   result.ToBalance,
			})
		},
	}
}

func (a *app) contractsCmd(profileID *int64) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Contract queries",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <contract-id>",
			Short: "Show a contract the acting profile takes part in",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("contract id", args[0])
				if err != nil {
					return err
				}

				svc, err := a.services(cmd.Context())
				if err != nil {
					return err
				}

				contract, err := svc.contracts.GetContract(cmd.Context(), id, *profileID)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), newContractView(contract))
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the acting profile's non-terminated contracts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.services(cmd.Context())
				if err != nil {
					return err
				}

				contracts, err := svc.contracts.ListActiveContracts(cmd.Context(), *profileID)
				if err != nil {
					return err
				}

				views := make([]contractView, 0, len(contracts))
				for _, c := range contracts {
					views = append(views, newContractView(c))
				}

				return printJSON(cmd.OutOrStdout(), views)
			},
		},
	)

	return cmd
}

func (a *app) jobsCmd(profileID *int64) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Job queries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "unpaid",
		Short: "List unpaid jobs on the acting profile's in_progress contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			jobs, err := svc.jobs.ListUnpaidJobs(cmd.Context(), *profileID)
			if err != nil {
				return err
			}

			views := make([]jobView, 0, len(jobs))
			for _, j := range jobs {
				views = append(views, newJobView(j))
			}

			return printJSON(cmd.OutOrStdout(), views)
		},
	})

	return cmd
}

func (a *app) ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "consistency",
			Short: "Check that transfers net to zero and balances match entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := a.services(cmd.Context())
				if err != nil {
					return err
				}

				report, err := svc.reconciliation.CheckConservation(cmd.Context())
				if err != nil {
					return err
				}

				if err := printJSON(cmd.OutOrStdout(), newConsistencyView(report)); err != nil {
					return err
				}

				if !report.Consistent {
					return fmt.Errorf("ledger inconsistent: transfer net %s, %d drifting profiles", report.TransferNet, len(report.Drift))
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "statement <profile-id>",
			Short: "Show a profile's balance and ledger entries",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("profile id", args[0])
				if err != nil {
					return err
				}

				svc, err := a.services(cmd.Context())
				if err != nil {
					return err
				}

				statement, err := svc.reconciliation.ProfileStatement(cmd.Context(), id)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), newStatementView(statement))
			},
		},
	)

	return cmd
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validation("invalid %s %q", name, raw)
	}

	return id, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.Validation("invalid amount %q", raw)
	}

	return amount, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
