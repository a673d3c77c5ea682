// The agent is the extension's native companion process. It owns the
// credential store and page cache, proxies reputation fetches, and serves
// two transports: Chrome native-messaging frames on stdio and the same
// protocol on a unix socket for the popup.
package main

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ugackMiner53/CrowdTruth/internal/client"
	"github.com/ugackMiner53/CrowdTruth/internal/config"
	"github.com/ugackMiner53/CrowdTruth/internal/credstore"
	"github.com/ugackMiner53/CrowdTruth/internal/injector"
	"github.com/ugackMiner53/CrowdTruth/internal/pagecache"
	"github.com/ugackMiner53/CrowdTruth/internal/relay"
)

// stdioPipe joins stdin and stdout into one ReadWriter. Stdout carries
// message frames only; all logging goes to stderr.
type stdioPipe struct {
	io.Reader
	io.Writer
}

func main() {
	cfg, err := config.LoadAgent("")
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatal().Err(err).Msg("failed to create data dir")
	}

	db, err := credstore.Open(filepath.Join(cfg.DataDir, "store"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open local store")
	}
	defer db.Close()

	creds := credstore.New(db)
	cache := pagecache.New(db, cfg.CacheTTL)
	api := client.New(cfg.ServerURL, cfg.RequestTimeout)
	inj := injector.New(api, cache, log)

	r := relay.New(creds, api, inj, log)
	r.OnOpenPopup = func(url string) error {
		// Best effort: spawn the popup binary against the same socket,
		// pointed at the page the request came from.
		cmd := exec.Command("crowdtruth-popup", url)
		cmd.Env = append(os.Environ(), "CROWDTRUTH_SOCKET_PATH="+cfg.SocketPath)
		return cmd.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Unix socket for the popup.
	_ = os.Remove(cfg.SocketPath)
	ln, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SocketPath).Msg("failed to listen on socket")
	}
	defer os.Remove(cfg.SocketPath)

	go func() {
		if err := r.ServeListener(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("socket listener stopped")
		}
	}()

	log.Info().
		Str("server", cfg.ServerURL).
		Str("socket", cfg.SocketPath).
		Msg("agent started")

	// Stdio carries the browser's native-messaging channel. The browser
	// closing stdin is the signal to exit.
	if err := r.Serve(ctx, stdioPipe{os.Stdin, os.Stdout}); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("stdio channel closed with error")
	}

	log.Info().Msg("agent stopped")
}
