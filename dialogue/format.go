package dialogue

import (
	"fmt"
	"strings"

	"github.com/tbxark/formstepper/types"
)

func formatPageSection(req *types.ToolRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Step %d of %d", req.PageIndex+1, req.PageCount)
	if req.Phase != "" {
		fmt.Fprintf(&sb, " (%s)", req.Phase)
	}
	fmt.Fprintf(&sb, ": %s\n", req.Page.Title)
	if req.Page.Copy != "" {
		sb.WriteString(req.Page.Copy)
		sb.WriteString("\n")
	}
	for _, f := range req.Page.Fields {
		sb.WriteString(formatField(f, req.Answers.Get(f.Label)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatField(f types.Field, v types.Value) string {
	var sb strings.Builder
	sb.WriteString("- ")
	sb.WriteString(f.Label)
	if f.Required {
		sb.WriteString(" *")
	}
	switch {
	case f.Kind.IsBoolean():
		b, _ := v.AsBool()
		if b {
			sb.WriteString(" [x]")
		} else {
			sb.WriteString(" [ ]")
		}
	case !v.IsBlank():
		fmt.Fprintf(&sb, ": %s", v.String())
	case f.Placeholder != "":
		fmt.Fprintf(&sb, " (%s)", f.Placeholder)
	}
	sb.WriteString("\n")
	if f.Kind.IsChoice() {
		for i, opt := range f.Options {
			fmt.Fprintf(&sb, "    %d. %s\n", i+1, opt)
		}
	}
	return sb.String()
}

func formatMissingFieldsSection(fields []types.FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.DisplayName)
	}
	return fmt.Sprintf("Please fill in %s before moving on.", strings.Join(names, ", "))
}

func formatValidationErrorsSection(fields []types.FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("- %s: %s", f.DisplayName, f.Description))
	}
	return strings.Join(lines, "\n")
}

func formatHintSection(req *types.ToolRequest) string {
	next := `"next" to continue`
	if req.IsLastPage() {
		next = `"next" to finish`
	}
	return fmt.Sprintf(`Answer with "Label: value" (one per line), %s or "back" to go back.`, next)
}
