package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trpc.group/trpc-go/trpc-a2a-go/auth"
	"trpc.group/trpc-go/trpc-a2a-go/server"
	"trpc.group/trpc-go/trpc-a2a-go/taskmanager"

	"github.com/tuannvm/formrelay/internal/logging"
)

// SetupServerOptions contains options for setting up an A2A server
type SetupServerOptions struct {
	AgentName        string
	AgentDescription string
	AgentVersion     string
	AgentURL         string
	AuthType         string
	JWTSecret        string
	APIKey           string
	Processor        taskmanager.TaskProcessor
	Skills           []server.AgentSkill
}

// NewAuthProvider builds the provider for authType ("jwt", "apikey" or empty).
// An empty type returns a nil provider.
func NewAuthProvider(authType, jwtSecret, apiKey string) (auth.Provider, error) {
	switch authType {
	case "":
		return nil, nil
	case "jwt":
		if jwtSecret == "" {
			return nil, fmt.Errorf("jwt auth requires a secret")
		}
		return auth.NewJWTAuthProvider([]byte(jwtSecret), "", "", 24*time.Hour), nil
	case "apikey":
		if apiKey == "" {
			return nil, fmt.Errorf("apikey auth requires an API key")
		}
		return auth.NewAPIKeyAuthProvider(map[string]string{apiKey: "user"}, "X-API-Key"), nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", authType)
	}
}

// SetupServer creates and configures an A2A server with common settings
func SetupServer(opts SetupServerOptions) (*server.A2AServer, error) {
	description := opts.AgentDescription
	if description == "" {
		description = fmt.Sprintf("%s agent", opts.AgentName)
	}
	agentCard := server.AgentCard{
		Name:        opts.AgentName,
		Description: StringPtr(description),
		URL:         opts.AgentURL,
		Version:     opts.AgentVersion,
		Provider: &server.AgentProvider{
			Organization: "formrelay",
		},
		DefaultInputModes:  []string{"text", "data"},
		DefaultOutputModes: []string{"text", "data"},
		Skills:             opts.Skills,
	}

	taskManager, err := taskmanager.NewMemoryTaskManager(opts.Processor)
	if err != nil {
		return nil, fmt.Errorf("failed to create task manager: %w", err)
	}

	// JSON-RPC at root so A2AClient.SendTasks posts to "/"
	serverOpts := []server.Option{
		server.WithJSONRPCEndpoint("/"),
		server.WithReadTimeout(2 * time.Minute),
		server.WithWriteTimeout(2 * time.Minute),
	}

	authProvider, err := NewAuthProvider(opts.AuthType, opts.JWTSecret, opts.APIKey)
	if err != nil {
		return nil, err
	}
	if authProvider != nil {
		logging.Infof("Configuring %s authentication for %s", opts.AuthType, opts.AgentName)
		serverOpts = append(serverOpts, server.WithAuthProvider(authProvider))
	} else {
		logging.Warnf("No authentication configured for %s, running unauthenticated", opts.AgentName)
	}

	srv, err := server.NewA2AServer(agentCard, taskManager, serverOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, nil
}

// StartServer runs the A2A server until ctx is done, then shuts it down
func StartServer(ctx context.Context, srv *server.A2AServer, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	errCh := make(chan error, 1)
	go func() {
		logging.Infof("Starting A2A server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start A2A server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logging.Infof("Shutting down A2A server...")
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
