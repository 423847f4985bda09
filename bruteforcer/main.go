// Command bruteforcer plays Treacherous Waters against a running server
// through the REST API, one shot at a time, using HuntStrategy.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/treacherouswaters/game/engine"
	"github.com/wricardo/mcp-training/treacherouswaters/game/service"
	"github.com/wricardo/mcp-training/treacherouswaters/logger"
)

// Client talks to one session of the game server
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client plays, empty before CreateSession
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session; an empty configID uses the server default
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*service.GameState, error) {
	var state service.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Fire(ctx context.Context, pos engine.Position) (*service.FireResult, error) {
	req := map[string]int{"x": pos.X, "y": pos.Y}

	var result service.FireResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/fire"), req, &result); err != nil {
		return nil, fmt.Errorf("fire at %s: %w", engine.FormatCoordinate(pos), err)
	}
	return &result, nil
}

// Restart re-deploys the fleet of the current session
func (c *Client) Restart(ctx context.Context) (*service.GameState, error) {
	var resp struct {
		Message string             `json:"message"`
		State   *service.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/restart"), nil, &resp); err != nil {
		return nil, fmt.Errorf("restart: %w", err)
	}
	return resp.State, nil
}

// Game is the outcome of one played game
type Game struct {
	Shots int
	Hits  int
	Won   bool
}

// play fires until the fleet is sunk, the strategy runs out of cells or
// maxShots is reached (0 means the grid area)
func play(ctx context.Context, client *Client, strategy *HuntStrategy, state *service.GameState, maxShots int, delay time.Duration) (Game, error) {
	if maxShots <= 0 {
		maxShots = state.Grid.Area()
	}

	var game Game
	for !state.GameOver && game.Shots < maxShots {
		pos, ok := strategy.Next(state)
		if !ok {
			logger.Log.Warn("no cell left to fire at")
			break
		}

		result, err := client.Fire(ctx, pos)
		if err != nil {
			return game, err
		}
		game.Shots++
		if result.Outcome != service.OutcomeMiss && result.Outcome != service.OutcomeRepeat {
			game.Hits++
		}
		state = result.GameState

		logger.Log.WithFields(logrus.Fields{
			"shot":    game.Shots,
			"cell":    result.Coordinate,
			"outcome": result.Outcome,
		}).Debug("fired")

		if delay > 0 {
			select {
			case <-ctx.Done():
				return game, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	game.Won = state.GameOver
	return game, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "bruteforcer",
		Usage: "Play Treacherous Waters automatically through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Fleet configuration ID (server default when empty)"},
			&cli.IntFlag{Name: "games", Value: 1, Usage: "Games to play; later games restart the same session"},
			&cli.IntFlag{Name: "max-shots", Usage: "Shot limit per game (0 = grid area)"},
			&cli.IntFlag{Name: "delay", Usage: "Delay between shots in milliseconds"},
			&cli.IntFlag{Name: "seed", Usage: "Tie-break seed (0 = always the first best cell)"},
			&cli.BoolFlag{Name: "v", Usage: "Log every shot"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("v") {
		logger.SetDebug()
	}

	var rng *rand.Rand
	if seed := uint64(cmd.Int("seed")); seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	strategy := NewHuntStrategy(rng)

	logger.Log.Infof("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	state, err := client.CreateSession(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"session": client.SessionID(),
		"grid":    fmt.Sprintf("%dx%d", state.Grid.Width, state.Grid.Height),
		"ships":   state.ShipsTotal,
	}).Info("session created")

	games := max(int(cmd.Int("games")), 1)
	delay := time.Duration(cmd.Int("delay")) * time.Millisecond
	out := cmd.Root().Writer

	totalShots, won := 0, 0
	for i := 1; i <= games; i++ {
		if i > 1 {
			if state, err = client.Restart(ctx); err != nil {
				return err
			}
		}

		game, err := play(ctx, client, strategy, state, int(cmd.Int("max-shots")), delay)
		if err != nil {
			return err
		}
		totalShots += game.Shots
		if game.Won {
			won++
		}

		result := "❌ not finished"
		if game.Won {
			result = "🎉 fleet sunk"
		}
		fmt.Fprintf(out, "Game %d: %s in %d shots (%.1f%% accuracy)\n", i, result, game.Shots, engine.Accuracy(game.Hits, game.Shots))
	}

	fmt.Fprintf(out, "Won %d/%d games, %.1f shots per game on average\n", won, games, float64(totalShots)/float64(games))
	fmt.Fprintf(out, "Session: %s\n", client.SessionID())
	if won < games {
		return fmt.Errorf("%d games not finished", games-won)
	}
	return nil
}

func main() {
	logger.Init()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logger.Log.Error(err)
		os.Exit(1)
	}
}
