package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

var (
	flagSearch   string
	flagStatus   string
	flagPriority string
	flagSort     string
	flagOrder    string

	flagTitle       string
	flagDescription string
	flagDueDate     string
	flagTags        []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks",
	RunE:  runList,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	RunE:  runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the supplied fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-status task counts",
	RunE:  runStats,
}

func init() {
	listCmd.Flags().StringVar(&flagSearch, "search", "", "substring match against title or description")
	listCmd.Flags().StringVar(&flagStatus, "status", "", "filter by status (pending|in-progress|completed)")
	listCmd.Flags().StringVar(&flagPriority, "priority", "", "filter by priority (low|medium|high)")
	listCmd.Flags().StringVar(&flagSort, "sort", "", "sort key (createdAt|updatedAt|dueDate|title|priority|status)")
	listCmd.Flags().StringVar(&flagOrder, "order", "", "asc for ascending, anything else descends")

	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		cmd.Flags().StringVar(&flagTitle, "title", "", "task title")
		cmd.Flags().StringVar(&flagDescription, "description", "", "task description")
		cmd.Flags().StringVar(&flagStatus, "status", "", "task status")
		cmd.Flags().StringVar(&flagPriority, "priority", "", "task priority")
		cmd.Flags().StringVar(&flagDueDate, "due", "", "due date (RFC 3339 or YYYY-MM-DD)")
		cmd.Flags().StringSliceVar(&flagTags, "tags", nil, "tags, comma separated")
	}
	createCmd.MarkFlagRequired("title")
}

func runList(cmd *cobra.Command, args []string) error {
	tasks, count, err := apiClient().ListTasks(cmd.Context(), model.TaskFilter{
		Search:   flagSearch,
		Status:   flagStatus,
		Priority: flagPriority,
		SortBy:   flagSort,
		Order:    flagOrder,
	})
	if err != nil {
		return err
	}

	fmt.Println(renderTaskTable(tasks))
	fmt.Printf("%d task(s)\n", count)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	task, err := apiClient().CreateTask(cmd.Context(), model.TaskCreate{
		Title:       flagTitle,
		Description: flagDescription,
		Status:      flagStatus,
		Priority:    flagPriority,
		DueDate:     flagDueDate,
		Tags:        flagTags,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created task %s\n", task.ID)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	// В запрос попадают только явно переданные флаги
	var in model.TaskUpdate
	if cmd.Flags().Changed("title") {
		in.Title = &flagTitle
	}
	if cmd.Flags().Changed("description") {
		in.Description = &flagDescription
	}
	if cmd.Flags().Changed("status") {
		in.Status = &flagStatus
	}
	if cmd.Flags().Changed("priority") {
		in.Priority = &flagPriority
	}
	if cmd.Flags().Changed("due") {
		in.DueDate = &flagDueDate
	}
	if cmd.Flags().Changed("tags") {
		in.Tags = &flagTags
	}

	task, err := apiClient().UpdateTask(cmd.Context(), args[0], in)
	if err != nil {
		return err
	}

	fmt.Printf("Updated task %s\n", task.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := apiClient().DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Println("Task deleted")
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := apiClient().Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(renderStats(stats))
	return nil
}
