package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bluesky/qmon/internal/qserver"
	"github.com/spf13/cobra"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a simulated run queue for development",
	Long: `mock-server starts an in-memory queue server that executes plans as
simulated runs, streaming their documents over /events. Point qmon at it
with --server to exercise the dashboard without real hardware.`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	f := mockServerCmd.Flags()
	f.String("host", "", "listen host (default from config)")
	f.Int("port", 0, "listen port (default from config)")
	f.Int("steps", 0, "event pages per simulated run")
	f.Duration("interval", 0, "delay between event pages")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	host, port := cfg.Mock.Host, cfg.Mock.Port
	steps := cfg.Mock.Steps
	interval := time.Duration(cfg.Mock.StepIntervalMS) * time.Millisecond

	f := cmd.Flags()
	if f.Changed("host") {
		host, _ = f.GetString("host")
	}
	if f.Changed("port") {
		port, _ = f.GetInt("port")
	}
	if f.Changed("steps") {
		steps, _ = f.GetInt("steps")
	}
	if f.Changed("interval") {
		interval, _ = f.GetDuration("interval")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := qserver.New(net.JoinHostPort(host, strconv.Itoa(port)),
		qserver.WithSteps(steps),
		qserver.WithStepInterval(interval),
		qserver.WithVersion(cfg.Mock.Version),
	)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mock queue server on %s (ctrl+c to stop)\n", srv.BaseURL())

	<-ctx.Done()
	log.Printf("mock-server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
