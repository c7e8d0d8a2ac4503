// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/trmxvibs/EnvSanityCheck/internal/validate"
)

// Options tunes the text rendering. Structured formats ignore it.
type Options struct {
	// Styled enables lipgloss colors. Callers set it only for terminals.
	Styled bool
	// Blueprint and EnvFile name the inputs in the report header when set.
	Blueprint string
	EnvFile   string
}

// Render writes r to w in the given format.
func Render(w io.Writer, r validate.Result, format Format, opts Options) error {
	if err := format.Validate(); err != nil {
		return err
	}

	if format.IsStructured() {
		out, err := NewDocument(r).Marshal(format)
		if err != nil {
			return fmt.Errorf("failed to encode %s report: %w", format, err)
		}
		_, err = w.Write(out)
		return err
	}

	_, err := io.WriteString(w, renderText(r, opts))
	return err
}

func renderText(r validate.Result, opts Options) string {
	p := newPalette(opts.Styled)
	var b strings.Builder

	b.WriteString(p.title.Render("envcheck report"))
	b.WriteString("\n")
	if opts.Blueprint != "" {
		fmt.Fprintf(&b, "  %s %s\n", p.detail.Render("blueprint:"), opts.Blueprint)
	}
	if opts.EnvFile != "" {
		fmt.Fprintf(&b, "  %s %s\n", p.detail.Render("env file: "), opts.EnvFile)
	}

	if r.AllChecksPassed {
		fmt.Fprintf(&b, "\n%s\n", p.success.Render(fmt.Sprintf("%s SUCCESS: all %d required key(s) are set correctly", iconSuccess, r.RequiredCount)))
		return b.String()
	}

	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.failure.Render(fmt.Sprintf("%s MISSING KEYS (%d)", iconError, len(r.Missing))))
		for _, o := range r.Missing {
			writeKeyLine(&b, p, o)
		}
		fmt.Fprintf(&b, "  %s\n", p.hint.Render("-> add these keys to the local configuration file (.env) or export them in the environment"))
	}

	if len(r.Empty) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.warning.Render(fmt.Sprintf("%s EMPTY KEYS (%d)", iconWarning, len(r.Empty))))
		for _, o := range r.Empty {
			writeKeyLine(&b, p, o)
		}
		fmt.Fprintf(&b, "  %s\n", p.hint.Render("-> these keys are set but blank; give each a non-blank value"))
	}

	if len(r.TypeErrors) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.warning.Render(fmt.Sprintf("%s TYPE MISMATCHES (%d)", iconWarning, len(r.TypeErrors))))
		for _, o := range r.TypeErrors {
			fmt.Fprintf(&b, "  %s %s %s\n", iconBullet, p.key.Render(string(o.Name)),
				p.detail.Render(fmt.Sprintf("expected %s, found '%s'", o.Expected, o.Actual)))
			fmt.Fprintf(&b, "    %s\n", o.Message)
			if o.Doc != "" {
				fmt.Fprintf(&b, "    %s\n", p.doc.Render("# "+o.Doc))
			}
		}
		fmt.Fprintf(&b, "  %s\n", p.hint.Render("-> correct these values to match their declared types"))
	}

	fmt.Fprintf(&b, "\n%s\n", p.failure.Render(fmt.Sprintf("%s FAILURE: %d missing, %d empty, %d type mismatch(es) (%d error(s) across %d required key(s))",
		iconError, len(r.Missing), len(r.Empty), len(r.TypeErrors), r.ErrorCount(), r.RequiredCount)))
	return b.String()
}

func writeKeyLine(b *strings.Builder, p palette, o validate.Outcome) {
	fmt.Fprintf(b, "  %s %s", iconBullet, p.key.Render(string(o.Name)))
	if o.Doc != "" {
		fmt.Fprintf(b, "  %s", p.doc.Render("# "+o.Doc))
	}
	b.WriteString("\n")
}
