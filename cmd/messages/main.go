package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/renteasy/messenger/internal/client"
	"github.com/renteasy/messenger/internal/config"
	"github.com/renteasy/messenger/internal/localstore"
	"github.com/renteasy/messenger/internal/presence"
	"github.com/renteasy/messenger/internal/stats"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	dataDir           string
	userId            string
	userName          string
	role              string
	assignments       stringSliceFlag
	listing           string
	landlord          string
	heartbeatInterval time.Duration
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".renteasy"
	}
	return filepath.Join(home, ".renteasy")
}

func main() {
	godotenv.Load()

	flag.StringVar(&dataDir, "data-dir", envOr("RENTEASY_DATA_DIR", defaultDataDir()), "shared profile storage directory")
	flag.StringVar(&userId, "user-id", envOr("RENTEASY_USER_ID", ""), "acting user id")
	flag.StringVar(&userName, "user-name", envOr("RENTEASY_USER_NAME", ""), "acting user display name")
	flag.StringVar(&role, "role", envOr("RENTEASY_ROLE", "tenant"), "acting role: tenant, landlord, manager or admin")
	flag.Var(&assignments, "assignments", "comma-separated manager assignment tokens (listing ids, states, LGAs)")
	flag.StringVar(&listing, "listing", "", "open or create a conversation for this listing id")
	flag.StringVar(&landlord, "landlord", "", "counterparty landlord id or name")
	flag.DurationVar(&heartbeatInterval, "heartbeat-interval", presence.DefaultInterval, "presence heartbeat interval")
	flag.Parse()

	logger := log.New(os.Stderr, "[messages] ", log.LstdFlags)

	cfg, err := config.NewConfig(dataDir, userId, userName, role, assignments)
	if err != nil {
		logger.Fatal("config:", err)
	}
	cfg.HeartbeatInterval = heartbeatInterval

	storage, err := localstore.NewFileStore(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("open storage:", err)
	}
	defer storage.Close()

	statsUpdater := stats.NewStatsUpdater()
	for _, name := range []string{stats.MessagesSent, stats.NotificationsPlayed, stats.StoreReloads, stats.Heartbeats} {
		statsUpdater.RegisterMetric(name)
	}
	statsUpdater.Run()
	defer statsUpdater.Stop()

	view := newTermView(os.Stdout)
	session := client.NewSession(logger, storage, cfg.Actor(), view, client.NewBellNotifier(), statsUpdater)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go session.Run(ctx, cfg.HeartbeatInterval)

	params := url.Values{}
	if listing != "" {
		params.Set("listing", listing)
	}
	if landlord != "" {
		params.Set("landlord", landlord)
	}
	if err := session.OpenFromQuery(params); err != nil {
		logger.Println("open conversation:", err)
	}

	go repl(ctx, cancel, session, view, logger)

	<-ctx.Done()
	logger.Println("shutdown complete")
}

func repl(ctx context.Context, cancel context.CancelFunc, session *client.Session, view *termView, logger *log.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "open":
			if id, ok := view.idAt(rest); ok {
				if err := session.Select(id); err != nil {
					logger.Println("select:", err)
				}
			} else {
				view.Notice("No such conversation in the list.")
			}
		case "send":
			session.Typing()
			if err := session.Send(ctx, rest, ""); err != nil {
				logger.Println("send:", err)
			}
		case "attach":
			path, text, _ := strings.Cut(rest, " ")
			if err := session.Send(ctx, text, path); err != nil {
				logger.Println("send:", err)
			}
		case "bg":
			session.SetVisible(false)
		case "fg":
			session.SetVisible(true)
		case "refresh":
			session.Refresh()
		case "quit", "exit":
			cancel()
			return
		default:
			view.Notice("Commands: open <n>, send <text>, attach <path> [text], bg, fg, refresh, quit")
		}
	}
	cancel()
}
