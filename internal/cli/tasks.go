package cli

import (
	"errors"
	"strings"

	"todomap/internal/model"
	"todomap/internal/mutate"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands (tasks are referenced by listing number, id prefix, or title)",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTaskRefCmd(app, "done <task>", "Mark a task completed", func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
		return mutate.SetCompleted(doc, id, true)
	}))
	cmd.AddCommand(newTaskRefCmd(app, "undo <task>", "Mark a task not completed", func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
		return mutate.SetCompleted(doc, id, false)
	}))
	cmd.AddCommand(newTaskRefCmd(app, "toggle <task>", "Toggle completion", mutate.ToggleTask))
	cmd.AddCommand(newTaskRefCmd(app, "delete <task>", "Move a task to the deleted list", mutate.DeleteTask))
	cmd.AddCommand(newTaskRefCmd(app, "restore <task>", "Move a deleted task back to the main list", mutate.RestoreTask))
	cmd.AddCommand(newTasksRenameCmd(app))
	cmd.AddCommand(newTasksTagCmd(app))
	cmd.AddCommand(newTasksUntagCmd(app))
	cmd.AddCommand(newTasksPriorityCmd(app))
	cmd.AddCommand(newTasksTopCmd(app))
	cmd.AddCommand(newTasksPurgeCmd(app))

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var list string
	var tag string
	var priority string
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks with their reference numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			var want model.ListKind
			switch strings.ToLower(strings.TrimSpace(list)) {
			case "", "active", "all":
			case "top":
				want = model.ListTopPriority
			case "main":
				want = model.ListMain
			case "deleted":
				want = model.ListDeleted
			default:
				return writeErr(cmd, errors.New("invalid --list (expected active|all|top|main|deleted)"))
			}
			includeDeleted := strings.EqualFold(strings.TrimSpace(list), "all") || want == model.ListDeleted

			var prio *model.Priority
			if strings.TrimSpace(priority) != "" {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				prio = &p
			}

			all := mutate.Refs(doc)
			out := make(taskListing, 0, len(all))
			for _, r := range all {
				if want != "" && r.List != want {
					continue
				}
				if r.List == model.ListDeleted && !includeDeleted {
					continue
				}
				if tag != "" && !r.Task.HasTag(strings.TrimPrefix(tag, "#")) {
					continue
				}
				if prio != nil && (r.List != model.ListMain || r.Task.Priority != *prio) {
					continue
				}
				if openOnly && r.Task.Completed {
					continue
				}
				out = append(out, r)
			}

			return writeOut(cmd, app, envelope{
				Data: out,
				Meta: map[string]any{
					"path":     s.Path,
					"total":    len(all),
					"returned": len(out),
				},
			})
		},
	}
	cmd.Flags().StringVar(&list, "list", "active", "Which tasks: active|all|top|main|deleted")
	cmd.Flags().StringVar(&tag, "tag", "", "Only tasks carrying this tag")
	cmd.Flags().StringVar(&priority, "priority", "", "Only main-list tasks in this bucket (today|this-week|urgent|normal)")
	cmd.Flags().BoolVar(&openOnly, "open", false, "Hide completed tasks")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var tags []string
	var priority string
	var top bool

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task (trailing #tags in the title are parsed)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			title, parsed := mutate.SplitTitleTags(strings.Join(args, " "))
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			in := mutate.TaskInput{
				Title:    title,
				Tags:     append(parsed, tags...),
				Priority: p,
			}

			var res mutate.Result
			if top {
				res, err = mutate.AddTopPriority(doc, in)
			} else {
				res, err = mutate.AddTask(doc, in)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Save(doc); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag to attach (repeatable)")
	cmd.Flags().StringVar(&priority, "priority", "normal", "Bucket: today|this-week|urgent|normal")
	cmd.Flags().BoolVar(&top, "top", false, "Add to the top-priority list")
	return cmd
}

// newTaskRefCmd builds a command that resolves one task reference, applies fn and saves
// when anything changed.
func newTaskRefCmd(app *App, use, short string, fn func(*model.Document, model.TaskID) (mutate.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := applyToTask(app, args[0], fn)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
}

func applyToTask(app *App, ref string, fn func(*model.Document, model.TaskID) (mutate.Result, error)) (mutate.Result, error) {
	doc, s, err := loadDocument(app)
	if err != nil {
		return mutate.Result{}, err
	}
	id, err := mutate.ResolveTaskID(doc, ref)
	if err != nil {
		return mutate.Result{}, err
	}
	res, err := fn(doc, id)
	if err != nil {
		return mutate.Result{}, err
	}
	if res.Changed {
		if err := s.Save(doc); err != nil {
			return mutate.Result{}, err
		}
	}
	return res, nil
}

func newTasksRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <task> <title...>",
		Short: "Change a task's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := applyToTask(app, args[0], func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
				return mutate.SetTitle(doc, id, strings.Join(args[1:], " "))
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
}

func newTasksTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <task> <tag...>",
		Short: "Attach tags to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := applyToTask(app, args[0], func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
				t, _, _ := doc.FindTask(id)
				return mutate.SetTags(doc, id, append(append([]string(nil), t.Tags...), args[1:]...))
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
}

func newTasksUntagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "untag <task> <tag...>",
		Short: "Remove tags from a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := applyToTask(app, args[0], func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
				var res mutate.Result
				changed := false
				for _, tag := range args[1:] {
					r, err := mutate.RemoveTag(doc, id, tag)
					if err != nil {
						return mutate.Result{}, err
					}
					changed = changed || r.Changed
					res = r
				}
				res.Changed = changed
				return res, nil
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
}

func newTasksPriorityCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <task> <today|this-week|urgent|normal>",
		Short: "Move a main-list task to another bucket",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := model.ParsePriority(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := applyToTask(app, args[0], func(doc *model.Document, id model.TaskID) (mutate.Result, error) {
				return mutate.SetPriority(doc, id, p)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
}

func newTasksTopCmd(app *App) *cobra.Command {
	var demote bool

	cmd := &cobra.Command{
		Use:   "top <task>",
		Short: "Promote a task to the top-priority list (or --demote it back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn := mutate.PromoteTop
			if demote {
				fn = mutate.DemoteTop
			}
			res, err := applyToTask(app, args[0], fn)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: taskChange(res)})
		},
	}
	cmd.Flags().BoolVar(&demote, "demote", false, "Move back to the main list (Normal bucket)")
	return cmd
}

func newTasksPurgeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Permanently drop every deleted task",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, s, err := loadDocument(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n := mutate.PurgeDeleted(doc)
			if n > 0 {
				if err := s.Save(doc); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"purged": n}})
		},
	}
}
