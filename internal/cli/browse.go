package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/pipeline"
)

// List styles
var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listCurrentStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

var previewStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 1)

// browseCommand creates the browse command for picking a diagram interactively.
func (c *CLI) browseCommand() *cobra.Command {
	var opts modelFlags

	cmd := &cobra.Command{
		Use:   "browse <model>",
		Short: "Browse the diagrams of a model bundle interactively",
		Long: `Browse renders the model and lists its diagrams with a preview of the
selected one. Press enter to print the selected diagram to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := perrors.ValidateModelFilename(path); err != nil {
				return err
			}
			ctx := cmd.Context()

			spinner := newSpinnerWithContext(ctx, c.Err, fmt.Sprintf("Rendering %s...", path))
			spinner.Start()
			result, err := c.newRunner(ctx).Execute(ctx, path, c.pipelineOptions(cmd, &opts))
			if err != nil {
				spinner.Stop()
				return err
			}
			if len(result.Diagrams) == 0 {
				spinner.Stop()
				printWarning(c.Err, "No diagrams to browse in %s", path)
				return nil
			}
			spinner.StopWithSuccess(fmt.Sprintf("Rendered %d %s", len(result.Diagrams), plural(len(result.Diagrams), "diagram")))

			p := tea.NewProgram(newBrowseModel(result.Diagrams), tea.WithOutput(c.Err), tea.WithContext(ctx))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(BrowseModel)
			if !ok || fm.Selected == nil {
				printDetail(c.Err, "No selection made")
				return nil
			}
			_, err = io.WriteString(c.Out, fm.Selected.Text)
			return err
		},
	}

	opts.register(cmd)

	return cmd
}

// =============================================================================
// BrowseModel - Interactive diagram selection
// =============================================================================

// BrowseModel is the bubbletea model listing rendered diagrams with a
// scrollable preview of the one under the cursor.
type BrowseModel struct {
	Diagrams []pipeline.Diagram
	Cursor   int
	Offset   int
	Height   int // Visible list rows
	Selected *pipeline.Diagram

	preview viewport.Model
}

func newBrowseModel(diagrams []pipeline.Diagram) BrowseModel {
	m := BrowseModel{
		Diagrams: diagrams,
		Height:   8,
		preview:  viewport.New(80, 16),
	}
	m.syncPreview()
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
				m.syncPreview()
			}
		case "down", "j":
			if m.Cursor < len(m.Diagrams)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
				m.syncPreview()
			}
		case "enter":
			if len(m.Diagrams) == 0 {
				return m, nil
			}
			d := m.Diagrams[m.Cursor]
			m.Selected = &d
			return m, tea.Quit
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.Height = max(3, msg.Height/4)
		m.preview.Width = max(20, msg.Width-4)
		m.preview.Height = max(5, msg.Height-m.Height-12)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

// syncPreview shows the diagram under the cursor from its first line.
func (m *BrowseModel) syncPreview() {
	if len(m.Diagrams) == 0 {
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(m.Diagrams[m.Cursor].Text)
	m.preview.GotoTop()
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  pgup/pgdn scroll  ⏎ print  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Diagrams))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Diagrams[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := d.RootName
		if name == "" {
			name = d.RootID
		}
		lines := strconv.Itoa(strings.Count(d.Text, "\n"))
		rows = append(rows, []string{cursor, d.Kind, name, lines, d.Filename()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Name", "Lines", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return listCurrentStyle
			}
			if col == 3 || col == 4 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(previewStyle.Render(m.preview.View()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %3.f%%", m.Cursor+1, len(m.Diagrams), m.preview.ScrollPercent()*100)))

	return b.String()
}
