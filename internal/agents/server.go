package agents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trpc.group/trpc-go/trpc-a2a-go/server"

	"github.com/tuannvm/formrelay/internal/common"
)

// StartHTTPServer serves the webhook routes until ctx is done
func (a *ReportAgent) StartHTTPServer(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.cfg.ServerHost, a.cfg.ServerPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("Webhook endpoint available at http://%s%s", addr, a.cfg.ReportPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("webhook server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Infof("Shutting down webhook server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown webhook server: %w", err)
	}
	return nil
}

// StartA2AServer exposes Process as an A2A agent until ctx is done
func (a *ReportAgent) StartA2AServer(ctx context.Context) error {
	srv, err := common.SetupServer(common.SetupServerOptions{
		AgentName:        a.cfg.AgentName,
		AgentDescription: "Builds question/answer reports from form submissions and relays them to Slack and Jira",
		AgentVersion:     a.cfg.AgentVersion,
		AgentURL:         a.cfg.AgentURL,
		AuthType:         a.cfg.AuthType,
		JWTSecret:        a.cfg.JWTSecret,
		APIKey:           a.cfg.APIKey,
		Processor:        a,
		Skills:           []server.AgentSkill{ReportSkill()},
	})
	if err != nil {
		return fmt.Errorf("failed to setup A2A server: %w", err)
	}
	return common.StartServer(ctx, srv, a.cfg.ServerHost, a.cfg.AgentPort)
}
