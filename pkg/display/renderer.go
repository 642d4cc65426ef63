package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"

	"github.com/zen-browser/surfer/pkg/assets"
	"github.com/zen-browser/surfer/pkg/errors"
	"github.com/zen-browser/surfer/pkg/overlay"
)

// Renderer writes command results
type Renderer struct {
	w      io.Writer
	format Format
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer, format Format) *Renderer {
	return &Renderer{w: w, format: format}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.format == FormatText {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) println(lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) actionMark(res overlay.EntryResult) string {
	switch {
	case res.Action == overlay.ActionFailed:
		return r.style(errorStyle, errorMark)
	case res.Overwritten || res.LocalEditsDiscarded:
		return r.style(warningStyle, warningMark)
	case res.Action == overlay.ActionUnchanged:
		return r.style(mutedStyle, pendingMark)
	default:
		return r.style(successStyle, successMark)
	}
}

// Import writes an overlay report grouped by first path segment. Unchanged
// entries are only counted.
func (r *Renderer) Import(report *overlay.Report) error {
	if report == nil {
		return nil
	}

	lines := []string{r.style(titleStyle, fmt.Sprintf("Import (%s)", report.Strategy))}

	var order []string
	byGroup := make(map[string][]overlay.EntryResult)
	for _, res := range report.Results {
		if _, ok := byGroup[res.Entry.Group]; !ok {
			order = append(order, res.Entry.Group)
		}
		byGroup[res.Entry.Group] = append(byGroup[res.Entry.Group], res)
	}

	for _, group := range order {
		results := byGroup[group]
		unchanged := 0
		var groupLines []string
		for _, res := range results {
			if res.Action == overlay.ActionUnchanged {
				unchanged++
				continue
			}
			line := fmt.Sprintf("%s %-9s %s", r.actionMark(res), res.Action, r.style(pathStyle, res.Entry.RelativePath))
			switch {
			case res.Action == overlay.ActionFailed:
				line += " " + r.style(errorStyle, res.Err().Error())
			case res.LocalEditsDiscarded:
				line += " " + r.style(warningStyle, "(local edits discarded)")
			case res.Overwritten:
				line += " " + r.style(warningStyle, "(overwrote unmanaged file)")
			}
			groupLines = append(groupLines, indent(line, 1))
		}
		header := fmt.Sprintf("%s %s", r.style(infoStyle, infoMark), group)
		if unchanged > 0 {
			header += " " + r.style(mutedStyle, fmt.Sprintf("(%d unchanged)", unchanged))
		}
		lines = append(lines, header)
		lines = append(lines, groupLines...)
	}

	lines = append(lines, "", r.summary(report))
	return r.println(lines...)
}

func (r *Renderer) summary(report *overlay.Report) string {
	parts := []string{
		fmt.Sprintf("%d entries", len(report.Results)),
		fmt.Sprintf("%d created", report.Count(overlay.ActionCreated)),
		fmt.Sprintf("%d replaced", report.Count(overlay.ActionReplaced)),
		fmt.Sprintf("%d unchanged", report.Count(overlay.ActionUnchanged)),
	}
	if n := report.Count(overlay.ActionFailed); n > 0 {
		parts = append(parts, r.style(errorStyle, fmt.Sprintf("%d failed", n)))
	}
	if n := len(report.Overwritten()) + len(report.LocalEditsDiscarded()); n > 0 {
		parts = append(parts, r.style(warningStyle, fmt.Sprintf("%d overwritten", n)))
	}
	if report.IgnoreLinesAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d ignore lines added", report.IgnoreLinesAdded))
	}
	return strings.Join(parts, ", ")
}

// Groups writes overlay groups with their entry counts
func (r *Renderer) Groups(groups []overlay.Group) error {
	if len(groups) == 0 {
		return r.println(r.style(mutedStyle, "No overlay files found"))
	}

	if r.format == FormatText {
		lines := make([]string, 0, len(groups))
		for _, g := range groups {
			lines = append(lines, fmt.Sprintf("%s\t%d", g.Name, len(g.Entries)))
		}
		return r.println(lines...)
	}

	data := pterm.TableData{{"Group", "Files"}}
	total := 0
	for _, g := range groups {
		data = append(data, []string{g.Name, fmt.Sprint(len(g.Entries))})
		total += len(g.Entries)
	}
	data = append(data, []string{"total", fmt.Sprint(total)})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	return r.println(table)
}

// Brands writes the available brand keys
func (r *Renderer) Brands(keys []string) error {
	if len(keys) == 0 {
		return r.println(r.style(mutedStyle, "No brands found"))
	}
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s %s", r.style(infoStyle, infoMark), key))
	}
	return r.println(lines...)
}

// Apply writes the artifacts of a brand apply, counted by kind
func (r *Renderer) Apply(res *assets.Result) error {
	if res == nil {
		return nil
	}

	counts := make(map[assets.ArtifactKind]int)
	for _, a := range res.Artifacts {
		counts[a.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	lines := []string{
		r.style(titleStyle, fmt.Sprintf("Brand %s", res.Key)),
		indent(r.style(pathStyle, res.OutputDir), 1),
	}
	for _, kind := range kinds {
		lines = append(lines, indent(fmt.Sprintf("%s %-24s %d", r.style(successStyle, successMark), kind, counts[assets.ArtifactKind(kind)]), 1))
	}
	if res.AppIni != "" {
		lines = append(lines, indent(fmt.Sprintf("%s update URLs patched: %d", r.style(successStyle, successMark), res.UpdateURLMatches), 1))
	}
	if res.Mozconfig != "" {
		lines = append(lines, indent(fmt.Sprintf("%s mozconfig %s", r.style(successStyle, successMark), r.style(pathStyle, res.Mozconfig)), 1))
	}
	return r.println(lines...)
}

// Error formats err, listing the paths carried in its details
func (r *Renderer) Error(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	code := errors.GetErrorCode(err)
	if code != errors.ErrUnknown && r.format == FormatTerminal {
		b.WriteString(fmt.Sprintf("%s %s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(string(code)), err.Error()))
	} else {
		b.WriteString(fmt.Sprintf("%s %s", r.style(errorStyle, errorMark), err.Error()))
	}

	details := errors.GetErrorDetails(err)
	for _, key := range []string{errors.DetailMissing, errors.DetailMatches} {
		list, _ := details[key].([]string)
		for _, item := range list {
			b.WriteString("\n" + indent(fmt.Sprintf("%s %s", key, r.style(pathStyle, item)), 1))
		}
	}
	return b.String()
}
