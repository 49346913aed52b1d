package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"tasklist/app/models"
)

// TaskCommand runs the task list commands against the board.
type TaskCommand struct {
	app *App
}

// NewTaskCommand creates a task command handler.
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{app: app}
}

// List prints every task.
func (c *TaskCommand) List(ctx context.Context) error {
	tasks, err := c.app.board.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	return c.print(tasks)
}

// Add creates a task named by the joined args.
func (c *TaskCommand) Add(ctx context.Context, args []string) error {
	tasks, err := c.app.board.Add(ctx, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return c.print(tasks)
}

// Toggle flips the completion flag of id.
func (c *TaskCommand) Toggle(ctx context.Context, id string) error {
	tasks, err := c.app.board.Toggle(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return c.print(tasks)
}

// Rename gives id the joined args as its name.
func (c *TaskCommand) Rename(ctx context.Context, id string, args []string) error {
	tasks, err := c.app.board.Rename(ctx, id, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to rename task: %w", err)
	}
	return c.print(tasks)
}

// Remove deletes id.
func (c *TaskCommand) Remove(ctx context.Context, id string) error {
	tasks, err := c.app.board.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return c.print(tasks)
}

func (c *TaskCommand) print(tasks []models.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(c.app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tNAME")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\n", t.ID, done, t.Name)
	}
	return w.Flush()
}
