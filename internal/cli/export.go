package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/bluesky/qmon/internal/rundocs"
	"github.com/bluesky/qmon/internal/ui/clipboard"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export UID",
	Short: "Fetch a run's documents and write them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportCmd,
}

func init() {
	exportCmd.Flags().String("dir", "", "output directory (default from config)")
	exportCmd.Flags().Bool("stdout", false, "write the export to stdout instead of a file")
	exportCmd.Flags().Bool("clipboard", false, "copy the export to the clipboard instead of a file")
	exportCmd.MarkFlagsMutuallyExclusive("stdout", "clipboard")
}

type exportTarget int

const (
	toFile exportTarget = iota
	toStdout
	toClipboard
)

func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Export.Dir
	if cmd.Flags().Changed("dir") {
		dir, _ = cmd.Flags().GetString("dir")
	}
	target := toFile
	if v, _ := cmd.Flags().GetBool("stdout"); v {
		target = toStdout
	}
	if v, _ := cmd.Flags().GetBool("clipboard"); v {
		target = toClipboard
	}

	client := rundocs.NewClient(cfg.Server.URL, cfg.RequestTimeout())
	return runExport(cmd.Context(), cmd.OutOrStdout(), client, args[0], dir, target)
}

var copyToClipboard = clipboard.Write

// documentFetcher is the part of rundocs.Client that export needs.
type documentFetcher interface {
	FetchDocuments(ctx context.Context, uid string) ([]rundocs.Document, error)
}

func runExport(ctx context.Context, w io.Writer, f documentFetcher, uid, dir string, target exportTarget) error {
	docs, err := f.FetchDocuments(ctx, uid)
	if err != nil {
		return fmt.Errorf("fetch run %s: %w", uid, err)
	}

	switch target {
	case toStdout:
		b, err := rundocs.MarshalExport(uid, docs)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case toClipboard:
		b, err := rundocs.MarshalExport(uid, docs)
		if err != nil {
			return err
		}
		osc52, err := copyToClipboard(string(b))
		if err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		how := "clipboard"
		if osc52 {
			how = "clipboard (OSC 52)"
		}
		fmt.Fprintf(w, "copied run %s to %s (%d documents)\n", uid, how, len(docs))
		return nil
	}

	path, err := rundocs.WriteExport(dir, uid, docs)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s (%d documents)\n", path, len(docs))
	return nil
}
