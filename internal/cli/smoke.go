package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/bluesky/qmon/internal/events"
	"github.com/bluesky/qmon/internal/qclient"
	"github.com/bluesky/qmon/internal/qserver"
	"github.com/bluesky/qmon/internal/rundocs"
	"github.com/spf13/cobra"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Drive a queue server end to end and summarize the runs",
	Long: `smoke queues a few plans, listens to the event stream while the queue
executes them, waits for the server to go idle and then fetches the
documents of every recorded run. With --spawn it starts its own in-process
mock server instead of talking to --server.`,
	Args: cobra.NoArgs,
	RunE: runSmokeCmd,
}

func init() {
	f := smokeCmd.Flags()
	f.Int("plans", 2, "number of plans to queue")
	f.Duration("timeout", 2*time.Minute, "overall deadline")
	f.Bool("spawn", false, "start an in-process mock server")
}

type smokeOptions struct {
	Server     string
	EventsPath string
	Plans      int
	Timeout    time.Duration
	Poll       time.Duration
	Request    time.Duration
	Spawn      bool
	MockSteps  int
	MockStep   time.Duration
	Settle     time.Duration
}

func runSmokeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	opts := smokeOptions{
		Server:     cfg.Server.URL,
		EventsPath: cfg.Server.EventsPath,
		Request:    cfg.RequestTimeout(),
		Poll:       250 * time.Millisecond,
		MockSteps:  5,
		MockStep:   50 * time.Millisecond,
		Settle:     200 * time.Millisecond,
	}
	opts.Plans, _ = f.GetInt("plans")
	opts.Timeout, _ = f.GetDuration("timeout")
	opts.Spawn, _ = f.GetBool("spawn")
	return runSmoke(cmd.Context(), cmd.OutOrStdout(), opts)
}

// eventTally counts streamed documents by kind.
type eventTally struct {
	mu    sync.Mutex
	kinds map[string]int
	total int
}

func (t *eventTally) add(m events.Message) {
	kind := "other"
	if doc, ok := rundocs.FromAny(m.Data); ok {
		kind = doc.Kind()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.kinds == nil {
		t.kinds = make(map[string]int)
	}
	t.kinds[kind]++
	t.total++
}

func (t *eventTally) snapshot() (int, map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total, maps.Clone(t.kinds)
}

func runSmoke(ctx context.Context, w io.Writer, opts smokeOptions) error {
	if opts.Plans < 1 {
		return errors.New("smoke: --plans must be at least 1")
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if opts.Spawn {
		srv := qserver.New("127.0.0.1:0",
			qserver.WithSteps(opts.MockSteps),
			qserver.WithStepInterval(opts.MockStep),
		)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Shutdown(shutdownCtx)
		}()
		opts.Server = srv.BaseURL()
	}
	if opts.Server == "" {
		return errors.New("smoke: no server configured")
	}

	client := qclient.New(opts.Server, opts.Request)
	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("smoke: server status: %w", err)
	}
	fmt.Fprintf(w, "server %s: %s (version %s)\n", client.BaseURL(), status.Status, status.Version)

	var tally eventTally
	sub := events.Subscribe(ctx, events.Options{URL: strings.TrimRight(opts.Server, "/") + opts.EventsPath}, tally.add)
	defer sub.Close()
	// The stream connects asynchronously; give it a moment so the first
	// run's start document is not missed.
	select {
	case <-time.After(opts.Settle):
	case <-ctx.Done():
		return ctx.Err()
	}

	for i := range opts.Plans {
		item, err := client.Add(ctx, fmt.Sprintf("smoke-%d", i+1), "count([det], num=5)")
		if err != nil {
			return fmt.Errorf("smoke: add plan: %w", err)
		}
		fmt.Fprintf(w, "queued %s (%s)\n", item.Name, item.UID)
	}
	started, err := client.Start(ctx)
	if err != nil {
		return fmt.Errorf("smoke: start queue: %w", err)
	}
	if !started {
		return errors.New("smoke: server refused to start the queue")
	}

	if err := waitIdle(ctx, client, opts.Poll); err != nil {
		return err
	}

	runs, err := client.Runs(ctx)
	if err != nil {
		return fmt.Errorf("smoke: list runs: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tDOCUMENTS\tKINDS")
	for _, uid := range runs {
		docs, err := client.Documents(ctx, uid)
		if err != nil {
			tw.Flush()
			return fmt.Errorf("smoke: documents for %s: %w", uid, err)
		}
		kinds := make(map[string]int)
		for _, d := range docs {
			kinds[d.Kind()]++
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", uid, len(docs), formatKinds(kinds))
	}
	tw.Flush()

	total, kinds := tally.snapshot()
	fmt.Fprintf(w, "streamed %d events: %s\n", total, formatKinds(kinds))

	if len(runs) < opts.Plans {
		return fmt.Errorf("smoke: expected %d runs, server recorded %d", opts.Plans, len(runs))
	}
	return nil
}

func waitIdle(ctx context.Context, client *qclient.Client, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("smoke: waiting for queue to drain: %w", ctx.Err())
		case <-ticker.C:
		}
		qs, err := client.QueueStatus(ctx)
		if err != nil {
			return fmt.Errorf("smoke: queue status: %w", err)
		}
		if qs.Idle() {
			return nil
		}
	}
}

func formatKinds(kinds map[string]int) string {
	if len(kinds) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(kinds))
	for _, k := range slices.Sorted(maps.Keys(kinds)) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, kinds[k]))
	}
	return strings.Join(parts, " ")
}
