package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"sim8086/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs [file]",
	Short: "Print the newest debug log",
	Long: `Print a debug log written with SIM8086_LOG_TO_FILE=1.
Without an argument the newest log in the configured log directory is used.`,
	Example: `
# Follow the newest log while another sim8086 runs
sim8086 logs -f
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")

		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			latest, err := logging.LatestLogFile(cfg.LogDir)
			if err != nil {
				return err
			}
			path = latest
		}
		return followLog(cmd.Context(), cmd.OutOrStdout(), path, follow)
	},
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "Keep printing lines as they are written")
}

// followLog copies the lines of path to w. With follow set it waits for new
// lines until ctx is done.
func followLog(ctx context.Context, w io.Writer, path string, follow bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Wait()
			}
			if line.Err != nil {
				return line.Err
			}
			if _, err := fmt.Fprintln(w, line.Text); err != nil {
				return err
			}
		}
	}
}
