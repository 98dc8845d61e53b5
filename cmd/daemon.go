package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budget/internal/cli"
	"github.com/theirongolddev/budget/internal/config"
	"github.com/theirongolddev/budget/internal/daemon"
	"github.com/theirongolddev/budget/internal/store"
)

// runtimeFile is written by a running daemon and removed on exit.
type runtimeFile struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

var (
	flagDaemonAddr     string
	flagDaemonInterval time.Duration
	flagDaemonDetach   bool
	flagDaemonRunFile  string
	flagDaemonLogFile  string
	flagDaemonEvents   int
	flagDaemonChild    bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch spending in the background and serve it over HTTP/SSE",
	Long: "Polls the database, keeps the current month's snapshot and offline advice,\n" +
		"and serves /v1/status, /v1/events, /v1/stream and /v1/advice.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default: daemon.addr)")
	pf.DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default: daemon.interval_sec)")
	pf.StringVar(&flagDaemonRunFile, "run-file", "", "Runtime state file (default: <data dir>/budgetd.json)")
	pf.StringVar(&flagDaemonLogFile, "log-file", "", "Log file for --detach (default: <data dir>/budgetd.log)")
	pf.IntVar(&flagDaemonEvents, "events-buffer", 0, "Events kept in memory (default: daemon.events_buffer)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run in the background")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: set on the detached process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings fills unset daemon flags from the config file.
func daemonSettings() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	dir := config.DataDir(cfg)
	if flagDaemonAddr == "" {
		flagDaemonAddr = cfg.Daemon.Addr
	}
	if flagDaemonInterval <= 0 {
		flagDaemonInterval = cfg.Daemon.Interval()
	}
	if flagDaemonEvents <= 0 {
		flagDaemonEvents = cfg.Daemon.EventsBuffer
	}
	if flagDaemonRunFile == "" {
		flagDaemonRunFile = filepath.Join(dir, "budgetd.json")
	}
	if flagDaemonLogFile == "" {
		flagDaemonLogFile = filepath.Join(dir, "budgetd.log")
	}
	return cfg, nil
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("--detach and --child are mutually exclusive")
	}
	cfg, err := daemonSettings()
	if err != nil {
		return err
	}
	if rt, ok := liveDaemon(flagDaemonRunFile); ok {
		return fmt.Errorf("daemon already running (pid %d, http://%s)", rt.PID, rt.Addr)
	}

	if flagDaemonDetach {
		return spawnDetached()
	}
	return serveDaemon(cfg)
}

// spawnDetached re-executes the current command line without --detach,
// with output going to the log file.
func spawnDetached() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // log path is chosen by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	args := slices.DeleteFunc(slices.Clone(os.Args[1:]), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
	child := exec.Command(exe, append(args, "--child")...) //nolint:gosec // re-exec of this binary
	child.Stdout, child.Stderr = logf, logf
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}
	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return child.Process.Release()
}

func serveDaemon(cfg config.Config) error {
	dbPath := store.DefaultPath(config.DataDir(cfg))
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer func() { _ = st.Close() }()

	rt := runtimeFile{PID: os.Getpid(), Addr: flagDaemonAddr, StartedAt: time.Now(), DBPath: dbPath}
	if err := writeRuntime(flagDaemonRunFile, rt); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonRunFile) }()

	svc := daemon.New(daemon.Config{
		DBPath:         dbPath,
		MonthlyIncome:  cfg.General.MonthlyIncome,
		Currency:       cfg.General.Currency,
		Interval:       flagDaemonInterval,
		Addr:           flagDaemonAddr,
		EventsBuffer:   flagDaemonEvents,
		AllowedOrigins: cfg.Daemon.AllowedOrigins,
		Logger:         slog.Default(),
	}, st)

	fmt.Printf("  budget daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling %s every %s\n", dbPath, flagDaemonInterval)
	fmt.Println("  Stop with: budget daemon stop")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := daemonSettings()
	if err != nil {
		return err
	}
	rt, ok := liveDaemon(flagDaemonRunFile)
	if !ok {
		fmt.Println("  Daemon: not running")
		return nil
	}

	fmt.Printf("  Daemon PID: %d (up %s)\n", rt.PID, time.Since(rt.StartedAt).Round(time.Second))
	fmt.Printf("  Address:    http://%s\n", rt.Addr)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()
	st, err := fetchStatus(ctx, rt.Addr)
	if err != nil {
		fmt.Printf("  API:        %v\n", err)
		return nil
	}

	last := "pending"
	if !st.LastPollAt.IsZero() {
		last = st.LastPollAt.Local().Format(time.RFC3339)
	}
	fmt.Printf("  Last poll:  %s (%d polls)\n", last, st.PollCount)
	fmt.Printf("  Month:      %s, %d transactions\n", st.Summary.Month, st.Summary.Transactions)
	fmt.Printf("  Spent:      %s of %s (%s)\n",
		fmtMoney(cfg, st.Summary.TotalExpenses),
		fmtMoney(cfg, st.Summary.MonthlyIncome),
		cli.FormatPercent(st.Summary.BudgetUsedPct),
	)
	if !st.AdviceAt.IsZero() {
		fmt.Printf("  Advice:     updated %s\n", st.AdviceAt.Local().Format(time.RFC3339))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed status: %w", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	if _, err := daemonSettings(); err != nil {
		return err
	}
	rt, ok := liveDaemon(flagDaemonRunFile)
	if !ok {
		return errors.New("daemon is not running")
	}

	if err := syscall.Kill(rt.PID, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon: %w", err)
	}
	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); time.Sleep(150 * time.Millisecond) {
		if !processAlive(rt.PID) {
			_ = os.Remove(flagDaemonRunFile)
			fmt.Printf("  Stopped daemon (pid %d)\n", rt.PID)
			return nil
		}
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", rt.PID)
}

// liveDaemon reads the runtime file and reports whether its process is
// still alive. A stale file is removed.
func liveDaemon(path string) (runtimeFile, bool) {
	var rt runtimeFile
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return rt, false
	}
	if err := json.Unmarshal(data, &rt); err != nil || rt.PID <= 0 || !processAlive(rt.PID) {
		_ = os.Remove(path)
		return rt, false
	}
	return rt, true
}

func writeRuntime(path string, rt runtimeFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create runtime directory: %w", err)
	}
	data, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func processAlive(pid int) bool {
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
