// Package cli implements the interactive command-line front end of the Aora
// client: a small REPL dispatching to the auth and post services.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/aoralabs/aora/internal/config"
	"github.com/aoralabs/aora/internal/logging"
	"github.com/aoralabs/aora/internal/models"
	"github.com/aoralabs/aora/internal/remote"
	"github.com/aoralabs/aora/internal/services"
	"github.com/aoralabs/aora/internal/sessioncache"
)

type App struct {
	config *config.Config
	log    logging.Logger

	auth  services.AuthService
	posts services.PostService

	reader *bufio.Reader
	out    io.Writer

	user *models.User
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	client := remote.NewHTTPClient(remote.Options{
		Endpoint:          cfg.Endpoint,
		ProjectID:         cfg.ProjectID,
		DatabaseID:        cfg.DatabaseID,
		BucketID:          cfg.StorageBucketID,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            log,
	})

	cache := sessioncache.New(cfg.DataDir)
	uploader := services.NewUploader(client, log)

	return &App{
		config: cfg,
		log:    log,
		auth:   services.NewAuthService(client, cache, cfg.UserCollectionID, log),
		posts:  services.NewPostService(client, uploader, cfg.VideoCollectionID, log),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// status is shown in the prompt: the logged-in username, if any.
func (a *App) status() string {
	if a.user == nil {
		return ""
	}
	return "(" + a.user.Username + ")"
}
