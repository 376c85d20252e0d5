package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskflow/internal/model"
	"github.com/BuzzLyutic/taskflow/pkg/client"
)

var (
	flagWatch    bool
	flagInterval time.Duration
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show stats and the task list in one view",
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVar(&flagWatch, "watch", false, "refresh continuously")
	dashboardCmd.Flags().DurationVar(&flagInterval, "interval", 5*time.Second, "refresh interval with --watch")
	dashboardCmd.Flags().StringVar(&flagSearch, "search", "", "substring match against title or description")
	dashboardCmd.Flags().StringVar(&flagStatus, "status", "", "filter by status")
	dashboardCmd.Flags().StringVar(&flagPriority, "priority", "", "filter by priority")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		model.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		model.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	priorityStyles = map[string]lipgloss.Style{
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		model.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

func runDashboard(cmd *cobra.Command, args []string) error {
	c := apiClient()
	view := client.NewTaskView()
	filter := model.TaskFilter{
		Search:   flagSearch,
		Status:   flagStatus,
		Priority: flagPriority,
	}

	render := func() error {
		stats, err := c.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if err := view.Refresh(cmd.Context(), c, filter); err != nil {
			return err
		}

		fmt.Println(renderStats(stats))
		fmt.Println(renderTaskTable(view.Tasks()))
		return nil
	}

	if err := render(); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}

	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-ticker.C:
			fmt.Print("\033[H\033[2J") // очистка экрана
			if err := render(); err != nil {
				return err
			}
		}
	}
}

func renderStats(stats model.Stats) string {
	parts := []string{headerStyle.Render(fmt.Sprintf("Total: %d", stats.Total))}
	for _, status := range model.Statuses() {
		style, ok := statusStyles[status]
		if !ok {
			style = dimStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s: %d", status, stats.ByStatus[status])))
	}
	return strings.Join(parts, "   ")
}

func renderTaskTable(tasks []model.Task) string {
	if len(tasks) == 0 {
		return dimStyle.Render("no tasks")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-38s %-30s %-12s %-8s %s",
		"ID", "TITLE", "STATUS", "PRIORITY", "DUE")))
	sb.WriteByte('\n')

	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Local().Format("2006-01-02")
		}

		title := t.Title
		if len(title) > 30 {
			title = title[:27] + "..."
		}

		sb.WriteString(fmt.Sprintf("%-38s %-30s %-12s %-8s %s\n",
			dimStyle.Render(t.ID.String()),
			title,
			statusStyles[t.Status].Render(fmt.Sprintf("%-12s", t.Status)),
			priorityStyles[t.Priority].Render(fmt.Sprintf("%-8s", t.Priority)),
			due,
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}
