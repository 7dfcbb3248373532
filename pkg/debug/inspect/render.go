package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nsql/pkg/debug/ui"
	"nsql/pkg/primitives"
)

// Render writes the report as styled text.
func (r *Report) Render(w io.Writer) error {
	var sections []string

	sections = append(sections, ui.TitleStyle.Render("nSQL inspect"))
	sections = append(sections, ui.HeaderStyle.Render(strings.Join([]string{
		ui.Field("file", r.Path.String()),
		ui.Field("bytes", fmt.Sprintf("%d", r.Size)),
		ui.Field("pages", fmt.Sprintf("%d", len(r.Pages))),
		ui.Field("blake3", r.Digest),
	}, "\n")))

	if len(r.Pages) == 0 {
		sections = append(sections, ui.HelpStyle.Render("file holds no pages"))
	}

	for _, p := range r.Pages {
		sections = append(sections, renderPage(p))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func renderPage(p PageReport) string {
	lines := []string{
		ui.PageInfoStyle.Render(fmt.Sprintf("page %d", p.Number)),
		ui.Field("type", p.Type.String()),
	}

	if p.Err != nil {
		lines = append(lines, ui.ErrorStyle.Render(p.Err.Error()))
	} else {
		parent := fmt.Sprintf("%d", p.Parent)
		if p.Parent == primitives.NoParent {
			parent = "none"
		}
		lines = append(lines,
			ui.Field("root", fmt.Sprintf("%t", p.IsRoot)),
			ui.Field("parent", parent),
			ui.Field("cells", fmt.Sprintf("%d", p.NumCells)),
		)
		if p.Keys != nil {
			keys := make([]string, len(p.Keys))
			for i, k := range p.Keys {
				keys[i] = fmt.Sprintf("%d", k)
			}
			lines = append(lines, ui.Field("keys", strings.Join(keys, ", ")))
		}
	}
	lines = append(lines, ui.Field("blake3", p.Digest))

	return ui.DetailStyle.Render(strings.Join(lines, "\n"))
}
