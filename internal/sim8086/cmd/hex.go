package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"sim8086/internal/listing"
	"sim8086/internal/verify"
)

var hexCmd = &cobra.Command{
	Use:   "hex [bytes...]",
	Short: "Decode machine code given as hex",
	Long: `Decode a short byte sequence written as hex and exit.
The bytes can be provided as arguments or, without arguments, piped on stdin. Separators
such as spaces, commas and 0x prefixes are ignored.`,
	Example: `
# Decode a single instruction
sim8086 hex 89 d9

# Compare against the x86asm rendering
sim8086 hex --reference 8b 56 00

# Read from a pipe
echo "b1 0c b5 f4" | sim8086 hex
  `,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := strings.Join(args, " ")
		if len(args) == 0 {
			stdin, err := readStdin()
			if err != nil {
				return fmt.Errorf("failed to read stdin: %v", err)
			}
			input = stdin
		}
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("no bytes given")
		}

		data, err := parseHex(input)
		if err != nil {
			return err
		}
		slog.Debug("Decoding hex input", "size", len(data))

		reference, _ := cmd.Flags().GetBool("reference")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		out := cmd.OutOrStdout()
		if jsonOutput {
			return runJSON(out, data, cfg)
		}
		return runHex(out, data, reference)
	},
}

func init() {
	hexCmd.Flags().BoolP("reference", "r", false, "Annotate each line with the x86asm rendering")
}

// runHex writes the listing for data. With reference set every decoded
// line carries the x86asm rendering of the same bytes.
func runHex(w io.Writer, data []byte, reference bool) error {
	l := listing.Build(data, listingOptions(cfg))
	if reference {
		checker := verify.New()
		for i, e := range l.Entries {
			if e.Inst == nil {
				continue
			}
			syntax, err := checker.Syntax(data[e.Offset:], uint64(e.Offset))
			if err != nil {
				syntax = err.Error()
			}
			l.Entries[i].Annotations = append(e.Annotations, "x86asm: "+syntax)
		}
	}

	opts := writeOptions(cfg)
	opts.Offsets = true
	opts.Bytes = true
	if err := listing.WriteASM(w, l, opts); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	return reportErrors("hex", l)
}

// parseHex decodes hex text, ignoring whitespace, commas and 0x prefixes.
// A lone digit is read as a single byte.
func parseHex(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	var sb strings.Builder
	for _, f := range fields {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		if len(f) == 1 {
			f = "0" + f
		}
		sb.WriteString(f)
	}

	data, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// readStdin returns piped input, or an empty string when stdin is a
// terminal.
func readStdin() (string, error) {
	if term.IsTerminal(os.Stdin.Fd()) {
		return "", nil
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if fi.Mode()&os.ModeNamedPipe == 0 {
		return "", nil
	}
	bts, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(bts), nil
}
