package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/wealthnav/internal/bot"
	"github.com/abhisek/wealthnav/internal/config"
	"github.com/abhisek/wealthnav/internal/line"
	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/registry"
	"github.com/abhisek/wealthnav/internal/server"
	"github.com/abhisek/wealthnav/internal/session"
	"github.com/abhisek/wealthnav/internal/sheets"
	"github.com/abhisek/wealthnav/internal/store"
	"github.com/abhisek/wealthnav/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the LINE webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	log.SetPrefix("[WEALTHNAV] ")

	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "wealthnav", version, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	bank, err := questionnaire.LoadOrDefault(cfg.QuestionsFile)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	log.Printf("question bank: %d questions, scores %d-%d", bank.Len(), bank.MinScore(), bank.MaxScore())

	regService, sink, err := buildRegistry(ctx, cfg, st)
	if err != nil {
		return err
	}
	async := session.NewAsyncSink(sink, session.DefaultAsyncConfig())
	engine := session.NewEngine(bank, nil, session.WithSink(async))

	var janitor *session.Janitor
	if cfg.SessionIdleTTL > 0 {
		janitor, err = session.NewJanitor(engine, cfg.SessionIdleTTL, cfg.SweepSchedule)
		if err != nil {
			return fmt.Errorf("session janitor: %w", err)
		}
		janitor.Start()
	}

	var opts []bot.Option
	if regService != nil {
		opts = append(opts, bot.WithRegistry(regService))
	}
	adv, err := newAdvisor(ctx, cfg, bank, st.EventRepo())
	if err != nil {
		log.Printf("warning: advisor disabled: %v", err)
	} else if adv != nil {
		opts = append(opts, bot.WithAdvisor(adv, cfg.AdvisorTimeout))
	}

	client := line.NewClient(cfg.LINE.ChannelAccessToken, cfg.LINE.APIBaseURL)
	handler := bot.New(engine, client, opts...)
	srv := server.New(cfg.LINE.ChannelSecret, handler)

	runErr := srv.Run(ctx, ":"+cfg.Port, cfg.ShutdownTimeout)

	// In-flight advisor pushes go out before the sink drains.
	handler.Wait()
	if janitor != nil {
		<-janitor.Stop().Done()
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := async.Close(drainCtx); err != nil {
		log.Printf("warning: %v", err)
	}
	if err := shutdownTracing(drainCtx); err != nil {
		log.Printf("warning: telemetry shutdown: %v", err)
	}
	return runErr
}

// buildRegistry returns the registration service (nil when registration
// is off) and the sink finished results go to. Every result reaches the
// local history.
func buildRegistry(ctx context.Context, cfg config.Config, st *store.Store) (*registry.Service, session.ResultSink, error) {
	history := historySink{repo: st.Results()}

	switch cfg.Registry {
	case config.RegistrySQLite:
		// The SQLite repo writes the history itself.
		svc := registry.NewService(st.Registrations())
		return svc, svc, nil

	case config.RegistrySheets:
		backend, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			Sheet:           cfg.Sheets.Name,
			CredentialsFile: cfg.Sheets.CredentialsFile,
			Location:        cfg.Location(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("sheets registry: %w", err)
		}
		svc := registry.NewService(backend)
		return svc, fanout{history, svc}, nil

	default:
		return nil, history, nil
	}
}
