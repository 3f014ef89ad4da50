package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"task-management/internal/model"
	"task-management/internal/service"
)

func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(taskListCmd(), taskAddCmd(), taskDoneCmd(), taskDeleteCmd())
	return cmd
}

func taskListCmd() *cobra.Command {
	var page, size int
	var oldestFirst bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if size <= 0 {
				size = a.cfg.DefaultPageSize
			}
			tasks, err := a.tasks.ListPage(context.Background(), model.PageOf(page, size), !oldestFirst)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found")
				return nil
			}
			for _, task := range tasks {
				mark := openMark
				if task.Done {
					mark = doneMark
				}
				due := dimText("never")
				if task.DueDate != nil {
					due = task.DueDate.Format("2006-01-02")
				}
				owner := "-"
				if task.Persona != nil {
					owner = task.Persona.DisplayName()
				}
				fmt.Fprintf(out, "%s %-5d %-40s due %-10s %s\n", mark, task.ID, task.Description, due, owner)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", 0, "page size (defaults to DEFAULT_PAGE_SIZE)")
	cmd.Flags().BoolVar(&oldestFirst, "oldest-first", false, "sort by creation date ascending")
	return cmd
}

func taskAddCmd() *cobra.Command {
	var personaID uint
	var due string
	cmd := &cobra.Command{
		Use:   "add [description]",
		Short: "Create a task assigned to a persona",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := service.TaskInput{Description: args[0], PersonaID: personaID}
			if due != "" {
				parsed, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid --due %q, expected YYYY-MM-DD", due)
				}
				input.DueDate = &parsed
			}

			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			task, err := a.tasks.Create(context.Background(), input)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created task %d for %s\n", okMark, task.ID, task.Persona.DisplayName())
			return nil
		},
	}
	cmd.Flags().UintVar(&personaID, "persona", 0, "owning persona id (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	return cmd
}

func taskDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle the done flag of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			current, err := a.tasks.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load task: %w", err)
			}
			task, err := a.tasks.SetDone(ctx, id, !current.Done)
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			state := "pending"
			if task.Done {
				state = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Task %d is now %s\n", okMark, task.ID, state)
			return nil
		},
	}
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.tasks.Delete(context.Background(), id); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted task %d\n", okMark, id)
			return nil
		},
	}
}
