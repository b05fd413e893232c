package views

import (
	"fmt"
	"strings"
)

const titleWidth = 20

type ListRowData struct {
	ID      string
	Title   string
	Due     string
	Overdue bool
}

type ListPanelData struct {
	Heading    string
	Rows       []ListRowData
	SelectedID string
	Confirm    string
}

type EditorPanelData struct {
	Heading         string
	TitleView       string
	DescriptionView string
	DueView         string
	Finished        bool
	Focus           int
	ErrorText       string
}

type AlertPanelData struct {
	Heading string
	Message string
	Pending int
}

type DetailData struct {
	Title       string
	Description string
	Due         string
	Added       string
	Finished    string
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
}

// FormatRow renders one list line: overdue marker, title padded to a fixed
// width, then the due date.
func FormatRow(row ListRowData) string {
	marker := " "
	if row.Overdue {
		marker = "*"
	}
	title := row.Title
	if r := []rune(title); len(r) > titleWidth {
		title = string(r[:titleWidth-1]) + "~"
	}
	return fmt.Sprintf("%s %-*s %s", marker, titleWidth, title, row.Due)
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString(data.Heading + ":\n")
	if len(data.Rows) == 0 {
		b.WriteString("(nothing to do)\n")
	}
	for i, row := range data.Rows {
		cursor := " "
		if row.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s%2d %s\n", cursor, i+1, FormatRow(row)))
	}
	if data.Confirm != "" {
		b.WriteString("\n" + data.Confirm + " [y/n]")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderEditorPanel(data EditorPanelData) string {
	fields := []string{data.TitleView, data.DescriptionView, data.DueView}
	labels := []string{"title", "description", "due (YYYY/MM/DD HH:MM)"}

	var b strings.Builder
	b.WriteString(data.Heading + ":\n")
	for i := range fields {
		cursor := " "
		if i == data.Focus {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n  %s\n", cursor, labels[i], fields[i]))
	}
	check := "[ ]"
	if data.Finished {
		check = "[x]"
	}
	b.WriteString(fmt.Sprintf("  %s finished\n", check))
	b.WriteString("keys: [tab] field [ctrl+f] finished [enter] save [esc] cancel")
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText)
	}
	return b.String()
}

func RenderAlertPanel(data AlertPanelData) string {
	if data.Heading == "" && data.Message == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToUpper(data.Heading) + "\n\n")
	b.WriteString(data.Message + "\n\n")
	if data.Pending > 0 {
		b.WriteString(fmt.Sprintf("(%d more)\n", data.Pending))
	}
	b.WriteString("press any key to dismiss")
	return b.String()
}

// DetailMarkdown builds the markdown shown in the detail pane.
func DetailMarkdown(data DetailData) string {
	if strings.TrimSpace(data.Title) == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("# " + data.Title + "\n\n")
	if strings.TrimSpace(data.Description) != "" {
		b.WriteString(data.Description + "\n\n")
	} else {
		b.WriteString("_No description_\n\n")
	}
	b.WriteString("- **due:** " + data.Due + "\n")
	b.WriteString("- **added:** " + data.Added + "\n")
	if data.Finished != "" {
		b.WriteString("- **finished:** " + data.Finished + "\n")
	}
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.Mode),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
