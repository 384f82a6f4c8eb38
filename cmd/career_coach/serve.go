package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/agent"
	"github.com/jonathan/career-coach/internal/llm"
	"github.com/jonathan/career-coach/internal/server"
	"github.com/jonathan/career-coach/internal/server/ratelimit"
	"github.com/jonathan/career-coach/internal/session"
	"github.com/jonathan/career-coach/internal/tools"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that exposes sessions, tool calls and the chat agent.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := loadApp()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		rt.cfg.Port = servePort
	}

	jwtConfig, err := rt.cfg.JWT()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, closeStore, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	toolbox := tools.New(database,
		tools.WithLogger(rt.logger),
		tools.WithMaxSearchLimit(rt.cfg.SearchMaxLimit))

	sessions := session.NewStore(
		session.WithTTL(rt.cfg.SessionTTL),
		session.WithLogger(rt.logger))
	sessions.StartCleanup(session.DefaultCleanupInterval)
	defer sessions.Stop()

	srvCfg := server.Config{
		Port:      rt.cfg.Port,
		Version:   version,
		Toolbox:   toolbox,
		Sessions:  sessions,
		JWT:       jwtConfig,
		RateLimit: ratelimit.FromSettings(rt.cfg.RateLimit),
		Logger:    rt.logger,
	}

	if rt.cfg.GeminiAPIKey == "" {
		rt.logger.Warn("GEMINI_API_KEY not set, chat endpoints disabled")
	} else {
		llmConfig := llm.DefaultConfig().WithModel(llm.TierStandard, rt.cfg.AgentModel)
		client, err := llm.NewClient(ctx, llmConfig, rt.cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create model client: %w", err)
		}
		defer client.Close() //nolint:errcheck

		coach, err := agent.NewCoach(client, toolbox,
			agent.WithLogger(rt.logger),
			agent.WithTier(llm.TierStandard))
		if err != nil {
			return err
		}
		srvCfg.Coach = coach
		rt.logger.Info("chat enabled", zap.String("model", client.GetModel(llm.TierStandard)))
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
