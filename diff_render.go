package linkml

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// RenderUnifiedDiff renders a DiffResult as a patch-style unified diff:
// one hunk per entity kind, "-" for removed, "+" for added, "~" for
// modified attribute changes.
func RenderUnifiedDiff(d *DiffResult) string {
	var b strings.Builder
	writeHunk(&b, "classes", d.AddedClasses, d.RemovedClasses, d.ModifiedClasses)
	writeHunk(&b, "slots", d.AddedSlots, d.RemovedSlots, d.ModifiedSlots)
	writeHunk(&b, "types", d.AddedTypes, d.RemovedTypes, d.ModifiedTypes)
	writeHunk(&b, "enums", d.AddedEnums, d.RemovedEnums, d.ModifiedEnums)
	return b.String()
}

func writeHunk(b *strings.Builder, kind string, added, removed []string, modified []EntityDiff) {
	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		return
	}
	fmt.Fprintf(b, "@@ %s @@\n", kind)
	for _, name := range sortedCopy(removed) {
		fmt.Fprintf(b, "-%s\n", name)
	}
	for _, name := range sortedCopy(added) {
		fmt.Fprintf(b, "+%s\n", name)
	}
	for _, e := range sortedEntities(modified) {
		fmt.Fprintf(b, "~%s\n", e.Name)
		for _, c := range e.Changes {
			fmt.Fprintf(b, "  %s: %v -> %v\n", c.Attribute, c.Old, c.New)
		}
	}
}

// RenderSideBySide renders a DiffResult as two aligned columns, old schema
// on the left and new on the right, one row per entity.
func RenderSideBySide(d *DiffResult) string {
	var b strings.Builder
	const width = 40

	writeSideBySideSection(&b, "classes", d.AddedClasses, d.RemovedClasses, d.ModifiedClasses, width)
	writeSideBySideSection(&b, "slots", d.AddedSlots, d.RemovedSlots, d.ModifiedSlots, width)
	writeSideBySideSection(&b, "types", d.AddedTypes, d.RemovedTypes, d.ModifiedTypes, width)
	writeSideBySideSection(&b, "enums", d.AddedEnums, d.RemovedEnums, d.ModifiedEnums, width)
	return b.String()
}

func writeSideBySideSection(b *strings.Builder, kind string, added, removed []string, modified []EntityDiff, width int) {
	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		return
	}
	fmt.Fprintf(b, "== %s ==\n", kind)
	for _, name := range sortedCopy(removed) {
		fmt.Fprintf(b, "%-*s | %s\n", width, name, "(removed)")
	}
	for _, name := range sortedCopy(added) {
		fmt.Fprintf(b, "%-*s | %s\n", width, "(added)", name)
	}
	for _, e := range sortedEntities(modified) {
		fmt.Fprintf(b, "%-*s | %s\n", width, e.Name, e.Name)
		for _, c := range e.Changes {
			fmt.Fprintf(b, "  %-*v | %v\n", width-2, c.Old, c.New)
		}
	}
}

// JSONPatchOp is one RFC 6902-shaped operation.
type JSONPatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// RenderJSONPatch renders a DiffResult as a list of JSON-Patch operations
// against a document rooted at /classes, /slots, /types, /enums. Paths are
// built as RFC 6901 JSON Pointers via jsonpointer.Format, so entity and
// attribute names containing "/" or "~" come out correctly escaped.
func RenderJSONPatch(d *DiffResult) []JSONPatchOp {
	var ops []JSONPatchOp
	ops = append(ops, patchOpsForSection("classes", d.AddedClasses, d.RemovedClasses, d.ModifiedClasses)...)
	ops = append(ops, patchOpsForSection("slots", d.AddedSlots, d.RemovedSlots, d.ModifiedSlots)...)
	ops = append(ops, patchOpsForSection("types", d.AddedTypes, d.RemovedTypes, d.ModifiedTypes)...)
	ops = append(ops, patchOpsForSection("enums", d.AddedEnums, d.RemovedEnums, d.ModifiedEnums)...)
	return ops
}

func patchOpsForSection(section string, added, removed []string, modified []EntityDiff) []JSONPatchOp {
	var ops []JSONPatchOp
	for _, name := range sortedCopy(removed) {
		ops = append(ops, JSONPatchOp{Op: "remove", Path: jsonpointer.Format(section, name)})
	}
	for _, name := range sortedCopy(added) {
		ops = append(ops, JSONPatchOp{Op: "add", Path: jsonpointer.Format(section, name)})
	}
	for _, e := range sortedEntities(modified) {
		for _, c := range e.Changes {
			ops = append(ops, JSONPatchOp{Op: "replace", Path: jsonpointer.Format(section, e.Name, c.Attribute), Value: c.New})
		}
	}
	return ops
}

// RenderMarkdown renders a DiffResult as a Markdown report with one section
// per entity kind, per spec.md §4.5's "renderers producing ... Markdown
// views". Mechanical formatting only (no prose generation), per the
// module's Non-goal on code-generation beyond a simple indent pass.
func RenderMarkdown(d *DiffResult) string {
	var b strings.Builder
	b.WriteString("# Schema diff\n\n")
	writeMarkdownSection(&b, "Classes", d.AddedClasses, d.RemovedClasses, d.ModifiedClasses)
	writeMarkdownSection(&b, "Slots", d.AddedSlots, d.RemovedSlots, d.ModifiedSlots)
	writeMarkdownSection(&b, "Types", d.AddedTypes, d.RemovedTypes, d.ModifiedTypes)
	writeMarkdownSection(&b, "Enums", d.AddedEnums, d.RemovedEnums, d.ModifiedEnums)
	if len(d.BreakingChanges) > 0 {
		b.WriteString("## Breaking changes\n\n")
		for _, e := range sortedEntities(d.BreakingChanges) {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", e.Name, e.Kind, e.BreakingWhy)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeMarkdownSection(b *strings.Builder, title string, added, removed []string, modified []EntityDiff) {
	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, name := range sortedCopy(added) {
		fmt.Fprintf(b, "- Added `%s`\n", name)
	}
	for _, name := range sortedCopy(removed) {
		fmt.Fprintf(b, "- Removed `%s`\n", name)
	}
	for _, e := range sortedEntities(modified) {
		fmt.Fprintf(b, "- Modified `%s`\n", e.Name)
		for _, c := range e.Changes {
			fmt.Fprintf(b, "  - `%s`: `%v` -> `%v`\n", c.Attribute, c.Old, c.New)
		}
	}
	b.WriteString("\n")
}

// RenderHTML renders a DiffResult as a minimal, unstyled HTML table — a
// mechanical dump, not a visualization tool (which spec.md's Non-goals
// explicitly place out of scope).
func RenderHTML(d *DiffResult) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	writeHTMLSection(&b, "classes", d.AddedClasses, d.RemovedClasses, d.ModifiedClasses)
	writeHTMLSection(&b, "slots", d.AddedSlots, d.RemovedSlots, d.ModifiedSlots)
	writeHTMLSection(&b, "types", d.AddedTypes, d.RemovedTypes, d.ModifiedTypes)
	writeHTMLSection(&b, "enums", d.AddedEnums, d.RemovedEnums, d.ModifiedEnums)
	b.WriteString("</table>\n")
	return b.String()
}

func writeHTMLSection(b *strings.Builder, kind string, added, removed []string, modified []EntityDiff) {
	for _, name := range sortedCopy(removed) {
		fmt.Fprintf(b, "<tr><td>%s</td><td>removed</td><td>%s</td></tr>\n", kind, name)
	}
	for _, name := range sortedCopy(added) {
		fmt.Fprintf(b, "<tr><td>%s</td><td>added</td><td>%s</td></tr>\n", kind, name)
	}
	for _, e := range sortedEntities(modified) {
		fmt.Fprintf(b, "<tr><td>%s</td><td>modified</td><td>%s</td></tr>\n", kind, e.Name)
	}
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sortedEntities(in []EntityDiff) []EntityDiff {
	out := append([]EntityDiff(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
