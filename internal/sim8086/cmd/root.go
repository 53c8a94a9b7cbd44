package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"sim8086/internal/config"
	"sim8086/internal/decoder"
	"sim8086/internal/listing"
	"sim8086/internal/sim8086/log"
	"sim8086/internal/sim8086/styles"
	"sim8086/internal/ui/colorize"
	"sim8086/internal/verify"
)

var (
	cfg       = config.Default()
	logCloser io.Closer
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().String("config", "", "Path to a JSON configuration file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().Bool("direct-address", false, "Decode mod 00 r/m 110 as a 16-bit direct address")
	rootCmd.PersistentFlags().BoolP("keep-going", "k", false, "Emit db lines for undecodable bytes and continue")
	rootCmd.PersistentFlags().Bool("verify", false, "Cross-check every instruction with x86asm")
	rootCmd.PersistentFlags().BoolP("offsets", "o", false, "Prefix lines with stream offsets")
	rootCmd.PersistentFlags().BoolP("bytes", "b", false, "Prefix lines with raw instruction bytes")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output results as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable syntax highlighting")

	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without the TUI")
	rootCmd.Flags().BoolP("summary", "s", false, "Print a summary instead of the listing (implies --no-tui)")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")

	rootCmd.AddCommand(hexCmd)
	rootCmd.AddCommand(logsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "sim8086 [file]",
	Short: "8086 mov instruction disassembler",
	Long: `sim8086 decodes 16-bit 8086 machine code and prints the equivalent assembly.
It understands the register/memory and immediate-to-register forms of mov and
writes a listing nasm can assemble back into the same bytes.`,
	Example: `
# Browse a listing interactively
sim8086 listing_0039_more_movs

# Print the listing for nasm
sim8086 -n listing_0039_more_movs > out.asm

# Show offsets and bytes, continuing past unknown opcodes
sim8086 -n -o -b -k image.bin
  `,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ResolveCwd(cmd); err != nil {
			return err
		}

		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		if cfg.NoColor {
			os.Setenv(config.EnvNoColor, "1")
		}
		logCloser = log.Setup(cfg.LogDir, cfg.Debug)
		slog.Debug("Configuration loaded", "config", fmt.Sprintf("%+v", cfg))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup CPU profiling if requested
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %v", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %v", err)
			}
			defer pprof.StopCPUProfile()
		}

		// Setup memory profiling if requested
		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		file := args[0]

		absPath, err := pathpkg.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path: %v", err)
		}

		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", file)
			}
			return fmt.Errorf("cannot access file: %v", err)
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		summary, _ := cmd.Flags().GetBool("summary")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if summary || jsonOutput {
			noTUI = true
		}

		// Piped output is always plain text
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			os.Setenv(config.EnvNoColor, "1")
		}

		if noTUI {
			data, err := os.ReadFile(absPath)
			if err != nil {
				return fmt.Errorf("failed to load file: %v", err)
			}
			slog.Debug("Decoding", "file", absPath, "size", len(data))

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				return runJSON(out, data, cfg)
			case summary:
				return runSummary(out, file, data, cfg)
			default:
				return runNoTUI(out, file, data, cfg)
			}
		}

		program := tea.NewProgram(
			newModel(absPath, listingOptions(cfg)),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

// loadConfig merges the configuration file and environment with the flags
// set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return c, err
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"debug", &c.Debug},
		{"direct-address", &c.DirectAddress},
		{"keep-going", &c.KeepGoing},
		{"verify", &c.Verify},
		{"offsets", &c.Offsets},
		{"bytes", &c.Bytes},
		{"no-color", &c.NoColor},
	}
	for _, f := range flags {
		if cmd.Flags().Changed(f.name) {
			*f.dst, _ = cmd.Flags().GetBool(f.name)
		}
	}
	return c, nil
}

func listingOptions(c config.Config) listing.Options {
	opts := listing.Options{
		DirectAddress: c.DirectAddress,
		KeepGoing:     c.KeepGoing,
	}
	if c.Verify {
		opts.Checker = verify.New()
	}
	return opts
}

func writeOptions(c config.Config) listing.WriteOptions {
	opts := listing.WriteOptions{
		Offsets: c.Offsets,
		Bytes:   c.Bytes,
	}
	if colorize.Enabled() {
		opts.Colorize = colorize.ColorizeInstructionLine
	}
	return opts
}

// runNoTUI writes the assembly listing for data. Decoding problems are
// logged; an error that stopped decoding is also returned.
func runNoTUI(w io.Writer, name string, data []byte, c config.Config) error {
	l := listing.Build(data, listingOptions(c))
	if err := listing.WriteASM(w, l, writeOptions(c)); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return reportErrors(name, l)
}

func runJSON(w io.Writer, data []byte, c config.Config) error {
	l := listing.Build(data, listingOptions(c))
	if err := listing.WriteJSON(w, l); err != nil {
		return err
	}
	if l.Err != nil {
		return fmt.Errorf("decoding stopped: %w", l.Err)
	}
	return nil
}

func runSummary(w io.Writer, name string, data []byte, c config.Config) error {
	l := listing.Build(data, listingOptions(c))
	md := listing.Summary(name, l)
	if colorize.Enabled() {
		md = styles.Render(md, 80)
	}
	_, err := fmt.Fprint(w, md)
	return err
}

func reportErrors(name string, l listing.Listing) error {
	for _, e := range l.Entries {
		if e.Err != nil {
			slog.Warn("Skipped undecodable byte", "file", name, "offset", e.Offset, "error", e.Err)
		}
		for _, a := range e.Annotations {
			if e.Err == nil {
				slog.Warn("Cross-check failed", "file", name, "offset", e.Offset, "detail", a)
			}
		}
	}
	if l.Err == nil {
		return nil
	}
	off, _ := decoder.Offset(l.Err)
	slog.Error("Decoding stopped", "file", name, "offset", off, "error", l.Err)
	return fmt.Errorf("%s: %w", name, l.Err)
}

func Execute() {
	defer func() {
		if logCloser != nil {
			logCloser.Close()
		}
	}()

	// Bypass fang's markdown rendering for plain output modes
	plain := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-tui", "-n", "--json", "-j", "--summary", "-s":
			plain = true
		}
	}

	// Also bypass fang when output is being piped
	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	var err error
	if plain {
		err = rootCmd.Execute()
	} else {
		err = fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		)
	}
	if err != nil {
		if logCloser != nil {
			logCloser.Close()
		}
		os.Exit(1)
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
