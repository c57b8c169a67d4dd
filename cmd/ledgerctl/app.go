package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	postgresRepo "github.com/iho/jobledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/jobledger/internal/adapter/repository/redis"
	"github.com/iho/jobledger/internal/domain"
	"github.com/iho/jobledger/internal/infrastructure/config"
	"github.com/iho/jobledger/internal/infrastructure/metrics"
	"github.com/iho/jobledger/internal/infrastructure/postgres"
	"github.com/iho/jobledger/internal/infrastructure/redis"
	"github.com/iho/jobledger/internal/usecase"
)

// Exit codes. Each domain error kind gets its own code so scripts can
// branch without parsing output.
const (
	exitOK                   = 0
	exitFailure              = 1
	exitValidation           = 2
	exitNotFound             = 3
	exitUnauthorized         = 4
	exitInsufficientFunds    = 5
	exitDepositLimitExceeded = 6
	exitAlreadyPaid          = 7
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return exitValidation
	case domain.KindNotFound:
		return exitNotFound
	case domain.KindUnauthorized:
		return exitUnauthorized
	case domain.KindInsufficientFunds:
		return exitInsufficientFunds
	case domain.KindDepositLimitExceeded:
		return exitDepositLimitExceeded
	case domain.KindAlreadyPaid:
		return exitAlreadyPaid
	default:
		return exitFailure
	}
}

type services struct {
	ledger         *usecase.LedgerUseCase
	payments       *usecase.PaymentUseCase
	deposits       *usecase.DepositUseCase
	contracts      *usecase.ContractUseCase
	jobs           *usecase.JobUseCase
	reconciliation *usecase.ReconciliationUseCase
	close          func()
}

type repositories struct {
	profiles  usecase.ProfileRepository
	contracts usecase.ContractRepository
	jobs      usecase.JobRepository
	entries   usecase.EntryRepository
	ledger    usecase.LedgerRepository
}

func newServices(
	repos repositories,
	runner *usecase.TxRunner,
	idGen usecase.IDGenerator,
	clock usecase.Clock,
	recorder usecase.MetricsRecorder,
	depositOpts ...usecase.DepositOption,
) *services {
	engine := usecase.NewLedgerEngine(repos.profiles, repos.entries, idGen, clock)
	depositOpts = append([]usecase.DepositOption{usecase.WithDepositMetrics(recorder)}, depositOpts...)

	return &services{
		ledger:         usecase.NewLedgerUseCase(runner, engine, recorder),
		payments:       usecase.NewPaymentUseCase(runner, engine, repos.jobs, clock, recorder),
		deposits:       usecase.NewDepositUseCase(runner, engine, repos.profiles, repos.jobs, depositOpts...),
		contracts:      usecase.NewContractUseCase(repos.contracts),
		jobs:           usecase.NewJobUseCase(repos.jobs),
		reconciliation: usecase.NewReconciliationUseCase(repos.profiles, repos.entries, repos.ledger, clock),
		close:          func() {},
	}
}

type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
	connect func(ctx context.Context) (*services, error)

	svc *services
}

// services connects on first use so that commands like migrate never
// open a pool.
func (a *app) services(ctx context.Context) (*services, error) {
	if a.svc != nil {
		return a.svc, nil
	}

	svc, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	a.svc = svc

	return svc, nil
}

func (a *app) connectPostgres(ctx context.Context) (*services, error) {
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL: a.cfg.DatabaseURL,
		MaxConns:    a.cfg.DatabaseMaxConns,
		MinConns:    a.cfg.DatabaseMinConns,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Msg("connected to postgres")

	retrier := postgresRepo.NewRetrier(postgresRepo.RetrierConfig{
		MaxRetries:      a.cfg.RetryMaxAttempts,
		InitialInterval: a.cfg.RetryInitialInterval,
		MaxInterval:     a.cfg.RetryMaxInterval,
		MaxElapsedTime:  a.cfg.DatabaseTimeout,
	}, a.logger, postgresRepo.WithRetryHook(a.metrics.IncStoreRetries))

	runner := usecase.NewTxRunner(postgresRepo.NewTxManager(pool), retrier, a.cfg.DatabaseTimeout)

	repos := repositories{
		profiles:  postgresRepo.NewProfileRepository(pool),
		contracts: postgresRepo.NewContractRepository(pool),
		jobs:      postgresRepo.NewJobRepository(pool),
		entries:   postgresRepo.NewEntryRepository(pool),
		ledger:    postgresRepo.NewLedgerRepository(pool),
	}

	closers := []func(){pool.Close}

	var depositOpts []usecase.DepositOption
	if a.cfg.IdempotencyEnabled() {
		client, err := redis.NewClient(ctx, a.cfg.RedisURL, a.cfg.DatabaseTimeout)
		if err != nil {
			pool.Close()
			return nil, err
		}
		a.logger.Debug().Msg("connected to redis")

		depositOpts = append(depositOpts, usecase.WithIdempotency(redisRepo.NewIdempotencyStore(client), a.cfg.IdempotencyTTL))
		closers = append(closers, func() { _ = client.Close() })
	}

	svc := newServices(repos, runner, postgresRepo.NewULIDGenerator(), postgresRepo.SystemClock{}, a.metrics, depositOpts...)
	svc.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	return svc, nil
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if a.svc != nil {
		a.svc.close()
		a.svc = nil
	}

	if werr := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); werr != nil {
		a.logger.Warn().Err(werr).Str("path", a.cfg.MetricsTextfile).Msg("failed to write metrics textfile")
	}

	if err != nil {
		code := exitCode(err)

		var derr *domain.Error
		if errors.As(err, &derr) {
			a.logger.Warn().Str("kind", string(derr.Kind)).Msg(derr.Message)
		} else {
			a.logger.Error().Err(err).Msg("command failed")
		}
		fmt.Fprintf(stderr, "error: %v\n", err)

		return code
	}

	return exitOK
}
