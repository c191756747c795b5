package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// timeNow is replaced in tests.
var timeNow = time.Now

func formatMissingFieldsSection(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Missing required fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Pointer", "Description")
	for _, field := range fields {
		_ = table.Append(field.DisplayName, field.JSONPointer, field.Description)
	}
	_ = table.Render()
	return buf.String()
}

func formatValidationErrorsSection(errors []FieldInfo) string {
	if len(errors) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Validation errors:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Pointer", "Error")
	for _, err := range errors {
		_ = table.Append(err.JSONPointer, err.Description)
	}
	_ = table.Render()
	return buf.String()
}

// FormatPage renders the fields of a page with their current answers.
func FormatPage(page Page, answers Answers) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Kind", "Required", "Options", "Value")
	for _, f := range page.Fields {
		required := ""
		if f.Required {
			required = "yes"
		}
		_ = table.Append(f.Label, string(f.Kind), required, strings.Join(f.Options, " | "), answers.Get(f.Label).String())
	}
	_ = table.Render()
	return buf.String()
}

// FormatAnswers renders answers in label order.
func FormatAnswers(answers Answers) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Answer")
	for _, label := range answers.Labels() {
		_ = table.Append(label, answers[label].String())
	}
	_ = table.Render()
	return buf.String()
}

func FormatToolRequest(req *ToolRequest) (string, error) {
	answersJSON, err := sonic.Marshal(req.Answers)
	if err != nil {
		return "", err
	}
	sections := []string{
		fmt.Sprintf("# Current Date: \n %s", timeNow().Format(time.RFC3339)),
		fmt.Sprintf("# Answers JSON:\n```json\n%s\n```", string(answersJSON)),
	}
	if req.StateSchema != "" {
		sections = append(sections, fmt.Sprintf("# Answers schema JSON:\n```json\n%s\n```", req.StateSchema))
	}
	if req.Status != "" {
		sections = append(sections, fmt.Sprintf("# Current Status:\n%s", req.Status))
	}
	if req.PageCount > 0 {
		progress := fmt.Sprintf("# Current Page (%d/%d):\n## %s\n%s", req.PageIndex+1, req.PageCount, req.Page.Title, req.Page.Copy)
		if req.Phase != "" {
			progress += fmt.Sprintf("\n> phase: %s", req.Phase)
		}
		sections = append(sections, progress, FormatPage(req.Page, req.Answers))
	}
	if req.Command != "" {
		turn := fmt.Sprintf("# This Turn:\n- command: %s", req.Command)
		if req.Outcome != "" {
			turn += fmt.Sprintf("\n- outcome: %s", req.Outcome)
		}
		sections = append(sections, turn)
	}
	if req.Notice != "" {
		sections = append(sections, fmt.Sprintf("# Notice:\n%s", req.Notice))
	}
	if req.MessagePair.Question != "" || req.MessagePair.Answer != "" {
		sections = append(sections, "# Latest Dialogue:")
		if req.MessagePair.Question != "" {
			sections = append(sections, fmt.Sprintf("## Assistant Question:\n%s", req.MessagePair.Question))
		}
		if req.MessagePair.Answer != "" {
			sections = append(sections, fmt.Sprintf("## User Answer:\n%s", req.MessagePair.Answer))
		}
	}
	if s := formatMissingFieldsSection(req.MissingFields); s != "" {
		sections = append(sections, s)
	}
	if s := formatValidationErrorsSection(req.ValidationErrors); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n\n"), nil
}
