package colorize

import (
	"strings"
	"testing"
)

func TestNoColor(t *testing.T) {
	t.Setenv("SIM8086_NO_COLOR", "1")

	lines := []string{
		"mov cx, bx",
		"0004  8b 56 00     mov dx, [bp + 0]",
		"db 0x00                        ; unrecognized opcode 0x00",
	}
	for _, line := range lines {
		if got := ColorizeInstructionLine(line); got != line {
			t.Errorf("ColorizeInstructionLine(%q) = %q with colors disabled", line, got)
		}
	}

	code := "bits 16\nmov cx, bx\n"
	got, err := ColorizeAssembly(code)
	if err != nil {
		t.Fatalf("ColorizeAssembly failed: %v", err)
	}
	if got != code {
		t.Errorf("ColorizeAssembly changed input with colors disabled: %q", got)
	}
}

func TestColorPreservesText(t *testing.T) {
	t.Setenv("SIM8086_NO_COLOR", "")

	tests := []string{
		"mov cx, bx",
		"mov al, [bx + si + -1]",
		"0004  8b 56 00     mov dx, [bp + 0]",
	}
	for _, line := range tests {
		got := ColorizeInstructionLine(line)
		if plain := Strip(got); plain != line {
			t.Errorf("Strip(ColorizeInstructionLine(%q)) = %q", line, plain)
		}
	}
}

func TestStrip(t *testing.T) {
	in := "\033[38;2;79;79;79m0004\033[0m mov"
	if got := Strip(in); got != "0004 mov" {
		t.Errorf("Strip = %q", got)
	}
	if strings.Contains(Strip("plain"), "\x1b") {
		t.Error("unexpected escape")
	}
}

func TestIsHexWord(t *testing.T) {
	if !isHexWord("00af") {
		t.Error("00af should be hex")
	}
	if isHexWord("mov") || isHexWord("") {
		t.Error("mov and empty string are not hex words")
	}
}
