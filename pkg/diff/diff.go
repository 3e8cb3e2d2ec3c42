package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

// Text returns a readable line diff between two generated-program
// texts, or "" when they are identical. Meant for test failure
// messages where a multi-line program is compared verbatim.
func Text(want, got string) string {
	return decorate(diff.Diff(got, want))
}

// ExportedOnly diffs the exported fields of two values, rendering each
// with pp before diffing. Useful for comparing decoded AST or metadata
// structures in tests.
func ExportedOnly[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)

	return decorate(diff.Diff(printer.Sprint(got), printer.Sprint(want)))
}

func decorate(d string) string {
	if d == "" {
		return ""
	}

	str := "\n\n"
	str += "to convert ACTUAL ⏩️ EXPECTED:\n\n"
	str += "add:    ➕\n"
	str += "remove: ➖\n"
	str += "\n"
	str += strings.ReplaceAll(strings.ReplaceAll(d, "\n-", "\n➖"), "\n+", "\n➕")

	return str
}
