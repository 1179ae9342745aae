package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"task-manager/internal/model"
	"task-manager/internal/service"
)

// clearToken clears an optional field when editing.
const clearToken = "-"

const helpText = `Commands:
  create | add | new [title]        create a task (prompts for details without a title)
  list | ls | show [filter] [sort]  filters: todo progress done cancelled overdue due high critical
                                    sorts: priority-desc priority-asc due-asc due-desc created-asc created-desc title-asc title-desc
  update | edit <n>                 edit a task; blank keeps a value, '-' clears it
  start <n>                         move a task to In Progress
  complete | done <n>               mark a task Done
  cancel <n>                        mark a task Cancelled
  reopen <n>                        move a task back to To Do
  delete | remove | rm <n>          delete a task
  search | find <keyword>           search titles and descriptions
  filter key=value ...              keys: status priority category keyword overdue sort
  category | cat [list]             list categories
  category create <name> [color] [description]
  category rename <name> <new name>
  category color <name> <color>
  category describe <name> <description>
  category delete <name>
  stats | statistics                show task counts
  remind | digest                   show overdue and due-soon tasks
  help | ?                          show this help
  exit | quit | q                   leave
Tasks are addressed by their number in the last listing or by id.
`

func (s *Shell) handleCommand(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "create", "add", "new":
		return s.handleCreate(ctx, args)
	case "list", "ls", "show":
		return s.handleList(ctx, args)
	case "update", "edit":
		return s.handleUpdate(ctx, args)
	case "start":
		return s.handleTransition(ctx, args, model.StatusInProgress)
	case "complete", "done":
		return s.handleTransition(ctx, args, model.StatusDone)
	case "cancel":
		return s.handleTransition(ctx, args, model.StatusCancelled)
	case "reopen":
		return s.handleTransition(ctx, args, model.StatusTodo)
	case "delete", "remove", "rm":
		return s.handleDelete(ctx, args)
	case "search", "find":
		return s.handleSearch(ctx, args)
	case "filter":
		return s.handleFilter(ctx, args)
	case "category", "cat", "categories":
		return s.handleCategory(ctx, args)
	case "stats", "statistics":
		return s.handleStats(ctx)
	case "remind", "digest":
		return s.handleRemind(ctx)
	case "help", "?":
		s.printf("%s", helpText)
		return nil
	case "exit", "quit", "q":
		return errQuit
	default:
		s.printf("Unknown command %q. Type 'help' for the list.\n", cmd)
		return nil
	}
}

func (s *Shell) handleCreate(ctx context.Context, args []string) error {
	var input model.TaskInput
	if len(args) > 0 {
		input.Title = strings.Join(args, " ")
	} else {
		if err := s.askTaskInput(ctx, &input); err != nil {
			return err
		}
	}

	task, err := s.svc.Tasks.CreateTask(ctx, input)
	if err != nil {
		return err
	}
	log.Printf("[info] created task %s", task.ID)
	s.printf("Created task %s (%s).\n", shortID(task.ID), task.Title)
	return nil
}

// askTaskInput walks through the fields of a new task, one prompt per field.
func (s *Shell) askTaskInput(ctx context.Context, input *model.TaskInput) error {
	var err error
	if input.Title, err = s.ask(ctx, "Title"); err != nil {
		return err
	}
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: task title cannot be blank", model.ErrValidation)
	}
	if input.Description, err = s.ask(ctx, "Description (optional)"); err != nil {
		return err
	}

	raw, err := s.ask(ctx, "Priority [low/medium/high/critical] (default medium)")
	if err != nil {
		return err
	}
	if raw != "" {
		if input.Priority, err = model.ParsePriority(raw); err != nil {
			return err
		}
	}

	if raw, err = s.ask(ctx, "Category name (optional)"); err != nil {
		return err
	}
	if raw != "" {
		category, err := s.svc.Categories.GetCategoryByName(ctx, raw)
		switch {
		case errors.Is(err, model.ErrNotFound):
			log.Printf("[warn] category %q not found, creating task without category", raw)
			s.printf("Category %q not found; the task will have no category.\n", raw)
		case err != nil:
			return err
		default:
			input.CategoryID = &category.ID
		}
	}

	if raw, err = s.ask(ctx, "Due date (yyyy-MM-dd [HH:mm], optional)"); err != nil {
		return err
	}
	if raw != "" {
		due, err := model.ParseDateIn(raw, s.loc)
		if err != nil {
			return err
		}
		input.DueDate = &due
	}
	return nil
}

// handleList combines every filter word; a task must match all of them.
func (s *Shell) handleList(ctx context.Context, args []string) error {
	var (
		criteria service.Criteria
		strategy = service.SortPriorityDesc
	)

	for _, arg := range args {
		var err error
		switch word := strings.ToLower(arg); word {
		case "all":
		case "todo":
			err = setStatus(&criteria, model.StatusTodo)
		case "progress", "in-progress", "in_progress":
			err = setStatus(&criteria, model.StatusInProgress)
		case "done":
			err = setStatus(&criteria, model.StatusDone)
		case "cancelled", "canceled":
			err = setStatus(&criteria, model.StatusCancelled)
		case "overdue":
			criteria.OverdueOnly = true
		case "due", "soon":
			criteria.DueSoonOnly = true
		case "high":
			err = setPriority(&criteria, model.PriorityHigh)
		case "critical":
			err = setPriority(&criteria, model.PriorityCritical)
		default:
			strategy, err = service.ParseSortStrategy(arg)
		}
		if err != nil {
			return err
		}
	}

	tasks, err := s.svc.Search.Filter(ctx, criteria)
	if err != nil {
		return err
	}
	return s.showTasks(ctx, s.svc.Search.Sort(tasks, strategy))
}

func setStatus(c *service.Criteria, status model.Status) error {
	if c.Status != 0 && c.Status != status {
		return fmt.Errorf("%w: cannot list %s and %s at once", model.ErrValidation, c.Status.DisplayName(), status.DisplayName())
	}
	c.Status = status
	return nil
}

func setPriority(c *service.Criteria, priority model.Priority) error {
	if c.Priority != 0 && c.Priority != priority {
		return fmt.Errorf("%w: cannot list %s and %s at once", model.ErrValidation, c.Priority.DisplayName(), priority.DisplayName())
	}
	c.Priority = priority
	return nil
}

func (s *Shell) handleUpdate(ctx context.Context, args []string) error {
	task, err := s.resolveTask(ctx, args)
	if err != nil {
		return err
	}
	s.printf("Editing %q. Press enter to keep a value, '-' to clear it.\n", task.Title)

	id := task.ID
	if raw, err := s.ask(ctx, fmt.Sprintf("Title [%s]", task.Title)); err != nil {
		return err
	} else if raw != "" {
		if task, err = s.svc.Tasks.UpdateTaskTitle(ctx, id, raw); err != nil {
			return err
		}
	}

	if raw, err := s.ask(ctx, fmt.Sprintf("Description [%s]", task.Description)); err != nil {
		return err
	} else if raw != "" {
		if raw == clearToken {
			raw = ""
		}
		if task, err = s.svc.Tasks.UpdateTaskDescription(ctx, id, raw); err != nil {
			return err
		}
	}

	if raw, err := s.ask(ctx, fmt.Sprintf("Priority [%s]", task.Priority.DisplayName())); err != nil {
		return err
	} else if raw != "" {
		priority, err := model.ParsePriority(raw)
		if err != nil {
			return err
		}
		if task, err = s.svc.Tasks.UpdateTaskPriority(ctx, id, priority); err != nil {
			return err
		}
	}

	if raw, err := s.ask(ctx, fmt.Sprintf("Category [%s]", s.categoryLabel(ctx, task.CategoryID))); err != nil {
		return err
	} else if raw != "" {
		var categoryID *string
		if raw != clearToken {
			category, err := s.svc.Categories.GetCategoryByName(ctx, raw)
			if err != nil {
				return err
			}
			categoryID = &category.ID
		}
		if task, err = s.svc.Tasks.UpdateTaskCategory(ctx, id, categoryID); err != nil {
			return err
		}
	}

	if raw, err := s.ask(ctx, fmt.Sprintf("Due date [%s]", s.formatDue(task.DueDate))); err != nil {
		return err
	} else if raw != "" {
		var due *time.Time
		if raw != clearToken {
			parsed, err := model.ParseDateIn(raw, s.loc)
			if err != nil {
				return err
			}
			due = &parsed
		}
		if task, err = s.svc.Tasks.UpdateTaskDueDate(ctx, id, due); err != nil {
			return err
		}
	}

	s.printf("Updated task %s.\n", shortID(task.ID))
	return nil
}

func (s *Shell) handleTransition(ctx context.Context, args []string, status model.Status) error {
	task, err := s.resolveTask(ctx, args)
	if err != nil {
		return err
	}
	updated, err := s.svc.Tasks.UpdateTaskStatus(ctx, task.ID, status)
	if err != nil {
		if errors.Is(err, model.ErrIllegalTransition) {
			s.printf("Allowed from %s: %s\n", task.Status.DisplayName(), nextStatuses(task.Status))
		}
		return err
	}
	log.Printf("[info] task %s moved to %s", updated.ID, updated.Status)
	s.printf("%q is now %s.\n", updated.Title, updated.Status.DisplayName())
	return nil
}

func (s *Shell) handleDelete(ctx context.Context, args []string) error {
	task, err := s.resolveTask(ctx, args)
	if err != nil {
		return err
	}
	removed, err := s.svc.Tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		return err
	}
	if !removed {
		s.printf("Task %s was already gone.\n", shortID(task.ID))
		return nil
	}
	log.Printf("[info] deleted task %s", task.ID)
	s.printf("Deleted %q.\n", task.Title)
	return nil
}

func (s *Shell) handleSearch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: search <keyword>", model.ErrValidation)
	}
	tasks, err := s.svc.Search.SearchByKeyword(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return s.showTasks(ctx, s.svc.Search.Sort(tasks, service.SortPriorityDesc))
}

func (s *Shell) handleFilter(ctx context.Context, args []string) error {
	var (
		criteria service.Criteria
		keywords []string
		strategy = service.SortPriorityDesc
	)

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			keywords = append(keywords, arg)
			continue
		}
		var err error
		switch strings.ToLower(key) {
		case "status":
			criteria.Status, err = model.ParseStatus(value)
		case "priority":
			criteria.Priority, err = model.ParsePriority(value)
		case "category":
			var category model.Category
			if category, err = s.svc.Categories.GetCategoryByName(ctx, value); err == nil {
				criteria.CategoryID = category.ID
			}
		case "keyword":
			keywords = append(keywords, value)
		case "overdue":
			criteria.OverdueOnly, err = strconv.ParseBool(value)
			if err != nil {
				err = fmt.Errorf("%w: overdue expects true or false, got %q", model.ErrValidation, value)
			}
		case "sort":
			strategy, err = service.ParseSortStrategy(value)
		default:
			err = fmt.Errorf("%w: unknown filter %q", model.ErrValidation, key)
		}
		if err != nil {
			return err
		}
	}
	criteria.Keyword = strings.Join(keywords, " ")

	tasks, err := s.svc.Search.Filter(ctx, criteria)
	if err != nil {
		return err
	}
	return s.showTasks(ctx, s.svc.Search.Sort(tasks, strategy))
}

func (s *Shell) handleCategory(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.EqualFold(args[0], "list") {
		categories, err := s.svc.Categories.GetAllCategories(ctx)
		if err != nil {
			return err
		}
		s.renderCategories(categories)
		return nil
	}

	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "create", "add", "new":
		if len(rest) == 0 {
			return fmt.Errorf("%w: usage: category create <name> [color] [description]", model.ErrValidation)
		}
		var color, description string
		if len(rest) > 1 && strings.HasPrefix(rest[1], "#") {
			color, rest = rest[1], append(rest[:1:1], rest[2:]...)
		}
		if len(rest) > 1 {
			description = strings.Join(rest[1:], " ")
		}
		category, err := s.svc.Categories.CreateCategory(ctx, rest[0], description, color)
		if err != nil {
			return err
		}
		s.printf("Created category %s.\n", category.Name)
		return nil

	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("%w: usage: category rename <name> <new name>", model.ErrValidation)
		}
		category, err := s.svc.Categories.GetCategoryByName(ctx, rest[0])
		if err != nil {
			return err
		}
		renamed, err := s.svc.Categories.UpdateCategoryName(ctx, category.ID, strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		s.printf("Renamed %s to %s.\n", category.Name, renamed.Name)
		return nil

	case "color", "colour":
		if len(rest) != 2 {
			return fmt.Errorf("%w: usage: category color <name> <color>", model.ErrValidation)
		}
		category, err := s.svc.Categories.GetCategoryByName(ctx, rest[0])
		if err != nil {
			return err
		}
		if category, err = s.svc.Categories.UpdateCategoryColor(ctx, category.ID, rest[1]); err != nil {
			return err
		}
		s.printf("%s is now %s.\n", category.Name, category.Color)
		return nil

	case "describe", "description":
		if len(rest) == 0 {
			return fmt.Errorf("%w: usage: category describe <name> <description>", model.ErrValidation)
		}
		category, err := s.svc.Categories.GetCategoryByName(ctx, rest[0])
		if err != nil {
			return err
		}
		if _, err = s.svc.Categories.UpdateCategoryDescription(ctx, category.ID, strings.Join(rest[1:], " ")); err != nil {
			return err
		}
		s.printf("Updated description of %s.\n", category.Name)
		return nil

	case "delete", "remove", "rm":
		if len(rest) != 1 {
			return fmt.Errorf("%w: usage: category delete <name>", model.ErrValidation)
		}
		category, err := s.svc.Categories.GetCategoryByName(ctx, rest[0])
		if err != nil {
			return err
		}
		if _, err := s.svc.Categories.DeleteCategory(ctx, category.ID); err != nil {
			return err
		}
		log.Printf("[info] deleted category %s", category.ID)
		s.printf("Deleted category %s. Its tasks keep a dangling reference.\n", category.Name)
		return nil

	default:
		return fmt.Errorf("%w: unknown category command %q", model.ErrValidation, sub)
	}
}

func (s *Shell) handleStats(ctx context.Context) error {
	stats, err := s.svc.Tasks.GetStatistics(ctx)
	if err != nil {
		return err
	}
	s.renderStats(stats)
	return nil
}

func (s *Shell) handleRemind(ctx context.Context) error {
	summary, err := s.svc.Reminders.Summary(ctx, s.now().In(s.loc))
	if err != nil {
		return err
	}
	s.printf("%s\n", summary)
	return nil
}

// resolveTask accepts a 1-based number from the last listing or a task id.
func (s *Shell) resolveTask(ctx context.Context, args []string) (model.Task, error) {
	if len(args) != 1 {
		return model.Task{}, fmt.Errorf("%w: expected a task number or id", model.ErrValidation)
	}
	ref := args[0]

	if n, err := strconv.Atoi(ref); err == nil {
		s.mu.Lock()
		last := s.last
		s.mu.Unlock()
		if n < 1 || n > len(last) {
			return model.Task{}, fmt.Errorf("%w: no task number %d in the last listing, run 'list' first", model.ErrValidation, n)
		}
		return s.svc.Tasks.GetTask(ctx, last[n-1].ID)
	}
	return s.svc.Tasks.GetTask(ctx, ref)
}

func (s *Shell) showTasks(ctx context.Context, tasks []model.Task) error {
	categories, err := s.svc.Categories.GetAllCategories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.last = tasks
	s.mu.Unlock()
	s.renderTasks(tasks, categories)
	return nil
}

func (s *Shell) categoryLabel(ctx context.Context, categoryID *string) string {
	if categoryID == nil {
		return "none"
	}
	category, err := s.svc.Categories.GetCategory(ctx, *categoryID)
	if err != nil {
		return missingCategory
	}
	return category.Name
}

func nextStatuses(status model.Status) string {
	next := status.Next()
	names := make([]string, 0, len(next))
	for _, candidate := range next {
		names = append(names, candidate.DisplayName())
	}
	return strings.Join(names, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
