package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// Sim8086Dark is registered on package initialization so getDisasmStyle
// finds it by name.
var Sim8086Dark = styles.Register(chroma.MustNewStyle("sim8086-dark", chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",
	chroma.Background:     "bg:#1e1e1e",
	chroma.Comment:        "#6A9955", // decode errors and cross-check notes
	chroma.CommentPreproc: "#569CD6", // bits 16

	chroma.Keyword:       "#FFFFFF", // mov
	chroma.KeywordPseudo: "#FFFFFF", // db
	chroma.Name:          "#7C9C9D", // registers in teal
	chroma.NameBuiltin:   "#7C9C9D",
	chroma.NameVariable:  "#7C9C9D",
	chroma.NameFunction:  "#FFFFFF",

	chroma.LiteralNumber:        "#FF5F87", // displacements and immediates in pink
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberBin:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFD700", // effective address brackets in gold
}))
