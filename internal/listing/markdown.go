package listing

import (
	"fmt"
	"sort"
	"strings"

	"sim8086/internal/decoder"
	"sim8086/internal/disasm"
)

func errOffset(l Listing) int {
	if off, ok := decoder.Offset(l.Err); ok {
		return off
	}
	return l.Size
}

// Summary renders an overview of the listing as markdown.
func Summary(name string, l Listing) string {
	insts := l.Instructions()

	var lines []string
	lines = append(lines, fmt.Sprintf("; %s", name))
	lines = append(lines, fmt.Sprintf("; %s", l.Digest))
	lines = append(lines, fmt.Sprintf("; %d bytes, %d instructions", l.Size, len(insts)))

	var md strings.Builder
	fmt.Fprintf(&md, "# sim8086\n\n```\n%s\n```\n", strings.Join(lines, "\n"))

	counts := l.Counts()
	if len(counts) > 0 {
		forms := make([]disasm.Form, 0, len(counts))
		for f := range counts {
			forms = append(forms, f)
		}
		sort.Slice(forms, func(i, j int) bool { return forms[i] < forms[j] })

		md.WriteString("\n## Forms\n\n| form | count |\n| --- | --- |\n")
		for _, f := range forms {
			fmt.Fprintf(&md, "| %s | %d |\n", f, counts[f])
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		md.WriteString("\n## Errors\n\n")
		for _, err := range errs {
			fmt.Fprintf(&md, "- `%s`\n", err)
		}
	}
	return md.String()
}

// Explain renders the bit fields of one entry as markdown.
func Explain(e Entry) string {
	var md strings.Builder
	fmt.Fprintf(&md, "## %04x  %s\n\n`%s`\n\n", e.Offset, HexBytes(e.Raw), e.Text)

	if len(e.Raw) > 0 {
		if name, ok := decoder.Describe(e.Raw[0]); ok {
			fmt.Fprintf(&md, "%s\n\n", name)
		}
	}

	labels := byteLabels(e)
	md.WriteString("| byte | bits | fields |\n| --- | --- | --- |\n")
	for i, b := range e.Raw {
		fmt.Fprintf(&md, "| %d | %08b | %s |\n", i, b, labels[i])
	}

	if e.Err != nil {
		fmt.Fprintf(&md, "\n> %s\n", e.Err)
	}
	for _, a := range e.Annotations {
		if e.Err != nil && a == e.Err.Error() {
			continue
		}
		fmt.Fprintf(&md, "\n; %s\n", a)
	}
	return md.String()
}

func byteLabels(e Entry) []string {
	labels := make([]string, len(e.Raw))
	if e.Inst == nil || len(e.Raw) == 0 {
		for i := range labels {
			labels[i] = "data"
		}
		return labels
	}

	b0 := e.Raw[0]
	switch e.Inst.Form {
	case disasm.FormRegMem:
		labels[0] = fmt.Sprintf("opcode %06b, d=%d, w=%d", b0>>2, b0>>1&1, b0&1)
		if len(e.Raw) > 1 {
			b1 := e.Raw[1]
			labels[1] = fmt.Sprintf("mod=%02b, reg=%03b, r/m=%03b", b1>>6, b1>>3&7, b1&7)
		}
		fillTrailing(labels, 2, "disp")
	case disasm.FormImmToReg:
		labels[0] = fmt.Sprintf("opcode %04b, w=%d, reg=%03b", b0>>4, b0>>3&1, b0&7)
		fillTrailing(labels, 1, "data")
	}
	return labels
}

// fillTrailing labels the displacement or immediate bytes starting at from.
func fillTrailing(labels []string, from int, name string) {
	switch len(labels) - from {
	case 1:
		labels[from] = name
	case 2:
		labels[from] = name + "-lo"
		labels[from+1] = name + "-hi"
	}
}
