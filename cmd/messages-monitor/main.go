package main

import (
	"bufio"
	"context"
	"flag"
	"log"
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
	"github.com/renteasy/messenger/internal/monitor"
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
	dataDir      string
	userId       string
	userName     string
	role         string
	assignments  stringSliceFlag
	pollInterval time.Duration
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
	flag.StringVar(&role, "role", envOr("RENTEASY_ROLE", "manager"), "monitoring role: manager or admin")
	flag.Var(&assignments, "assignments", "comma-separated manager assignment tokens (listing ids, states, LGAs)")
	flag.DurationVar(&pollInterval, "poll-interval", monitor.DefaultPollInterval, "refresh fallback interval")
	flag.Parse()

	logger := log.New(os.Stderr, "[messages-monitor] ", log.LstdFlags)

	cfg, err := config.NewConfig(dataDir, userId, userName, role, assignments)
	if err != nil {
		logger.Fatal("config:", err)
	}
	cfg.PollInterval = pollInterval

	storage, err := localstore.NewFileStore(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("open storage:", err)
	}
	defer storage.Close()

	statsUpdater := stats.NewStatsUpdater()
	for _, name := range []string{stats.NotificationsPlayed, stats.MonitorRefreshes} {
		statsUpdater.RegisterMetric(name)
	}
	statsUpdater.Run()
	defer statsUpdater.Stop()

	view := newMonitorView(os.Stdout)
	mon := monitor.New(logger, storage, cfg.Actor(), view, client.NewBellNotifier(), statsUpdater)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go mon.Run(ctx, cfg.PollInterval)
	mon.Refresh()

	go repl(cancel, mon, view, logger)

	<-ctx.Done()
	logger.Println("shutdown complete")
}

func repl(cancel context.CancelFunc, mon *monitor.Monitor, view *monitorView, logger *log.Logger) {
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
				if err := mon.Open(id, true); err != nil {
					logger.Println("open:", err)
				}
			} else {
				view.Notice("No such conversation in the list.")
			}
		case "filter":
			view.setMode(monitor.FilterMode(rest))
			mon.SetFilter(monitor.Filter{Mode: view.mode(), Query: view.query()})
		case "search":
			view.setQuery(rest)
			mon.SetFilter(monitor.Filter{Mode: view.mode(), Query: rest})
		case "refresh":
			mon.Refresh()
		case "quit", "exit":
			cancel()
			return
		default:
			view.Notice("Commands: open <n>, filter all|unread|tenants|managers|assigned, search <text>, refresh, quit")
		}
	}
	cancel()
}
