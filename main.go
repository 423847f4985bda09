// Command treacherouswaters starts the Treacherous Waters game server.
//
// It supports three commands:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "layout" – prints one generated fleet layout and exits
//
// Flags control host/port, config directory, debug logging, and optional
// ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/treacherouswaters/api"
	"github.com/wricardo/mcp-training/treacherouswaters/game/config"
	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
	"github.com/wricardo/mcp-training/treacherouswaters/game/service"
	"github.com/wricardo/mcp-training/treacherouswaters/game/session"
	"github.com/wricardo/mcp-training/treacherouswaters/logger"
	"github.com/wricardo/mcp-training/treacherouswaters/transport/mcp"
	"github.com/wricardo/mcp-training/treacherouswaters/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Treacherous Waters Server"
)

const (
	sessionCleanupInterval = time.Hour
	sessionMaxAge          = 24 * time.Hour
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp()
	app.Before = func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		logger.Init()
		if cmd.Bool("debug") {
			logger.SetDebug()
		}
		if envErr == nil {
			logger.Log.Debug("Loaded environment variables from .env file")
		} else if !os.IsNotExist(envErr) {
			logger.Log.WithError(envErr).Warn("Error loading .env file")
		}
		return ctx, nil
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Log.WithError(err).Fatal("exiting")
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "treacherouswaters",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing fleet configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "External API server to reuse when it is reachable",
						Sources: cli.EnvVars("API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "layout",
				Usage: "Print one generated fleet layout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Config ID (defaults to the server default)",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "Random seed; 0 picks a random one",
					},
				},
				Action: runLayout,
			},
		},
	}
}

// services bundles what the commands need
type services struct {
	game     service.GameService
	sessions *session.Manager
	configs  *config.Manager
}

// initializeServices wires session/config managers and the game service
func initializeServices(configDir string) (*services, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()

	return &services{
		game:     service.NewGameService(sessionManager, configManager),
		sessions: sessionManager,
		configs:  configManager,
	}, nil
}

// newHTTPHandler mounts the API server at root and the MCP proxy at /mcp
func newHTTPHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	svc, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go svc.sessions.RunCleanup(ctx, sessionCleanupInterval, sessionMaxAge)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	handler := newHTTPHandler(api.NewServer(svc.game, hub), mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Log.WithFields(logrus.Fields{
			"addr":    addr,
			"version": Version,
		}).Infof("%s listening", AppName)
		logger.Log.Infof("REST API: http://%s/api", addr)
		logger.Log.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		logger.Log.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler)
		}()
	}

	<-ctx.Done()
	logger.Log.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP server shutdown error")
	}

	wg.Wait()
	logger.Log.Info("Server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		logger.Log.Warn("Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	logger.Log.Info("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Log.WithField("domain", domain).Info("Using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	logger.Log.Infof("Ngrok tunnel established: %s", ngrokURL)
	logger.Log.Infof("  REST API (ngrok): %s/api", ngrokURL)
	logger.Log.Infof("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		logger.Log.WithError(err).Error("Ngrok server error")
	}
	logger.Log.Info("Ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an external API when one
// answers at --api-url; otherwise it starts an internal HTTP API bound to a
// random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	externalURL := strings.TrimSuffix(cmd.String("api-url"), "/")
	baseURL := externalURL

	if !apiReachable(externalURL) {
		logger.Log.Info("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(cmd.String("config-dir"))
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)
		go svc.sessions.RunCleanup(ctx, sessionCleanupInterval, sessionMaxAge)

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logger.Log.WithError(err).Error("Internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		logger.Log.WithField("addr", baseURL).Info("MCP stdio server ready (using internal HTTP server)")
	} else {
		logger.Log.WithField("addr", baseURL).Info("MCP stdio server ready (using external HTTP server)")
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiReachable reports whether a Treacherous Waters API answers at baseURL
func apiReachable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runLayout prints one generated layout for a fleet config
func runLayout(ctx context.Context, cmd *cli.Command) error {
	svc, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	fleet := svc.configs.GetDefault()
	if id := cmd.String("config"); id != "" {
		if fleet, err = svc.configs.LoadConfig(id); err != nil {
			return err
		}
	}

	var opts []engine.Option
	if seed := uint64(cmd.Int("seed")); seed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}

	board, err := engine.NewBoardFromConfig(fleet, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", fleet.Name, err)
	}

	fmt.Fprint(cmd.Root().Writer, renderLayout(fleet.Name, board))
	return nil
}

// shipLabels marks ships in layout output, in fleet order
const shipLabels = "123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// renderLayout draws every ship of board on a labelled grid
func renderLayout(name string, board *engine.Board) string {
	size := board.GridSize()
	rows := make([][]byte, size.Height)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(".", size.Width))
	}

	var legend strings.Builder
	for i, ship := range board.Ships() {
		label := byte('?')
		if i < len(shipLabels) {
			label = shipLabels[i]
		}
		coords := make([]string, 0, len(ship.Placement))
		for _, p := range ship.Placement {
			rows[p.Y][p.X] = label
			coords = append(coords, engine.FormatCoordinate(p))
		}
		fmt.Fprintf(&legend, "%c %s (%d): %s\n", label, ship.Blueprint.Name, ship.Blueprint.Size, strings.Join(coords, " "))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "%s (%dx%d)\n\n    ", name, size.Width, size.Height)
	for x := 0; x < size.Width; x++ {
		out.WriteByte(byte('A' + x))
	}
	out.WriteString("\n")
	for y, row := range rows {
		fmt.Fprintf(&out, "%3d %s\n", y+1, row)
	}
	out.WriteString("\n")
	out.WriteString(legend.String())
	return out.String()
}
