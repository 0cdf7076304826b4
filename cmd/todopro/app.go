package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mlefevre/todopro/internal/auth"
	"github.com/mlefevre/todopro/internal/category"
	"github.com/mlefevre/todopro/internal/model"
	"github.com/mlefevre/todopro/internal/pipeline"
	"github.com/mlefevre/todopro/internal/prefs"
	"github.com/mlefevre/todopro/internal/stats"
	"github.com/mlefevre/todopro/internal/store"
)

// App wires the data layer together and drives the interactive loop.
type App struct {
	logger     *slog.Logger
	prefs      *prefs.Store
	auth       *auth.Service
	categories *category.Registry
	tasks      *pipeline.TaskList
}

// Run signs the user in (restoring any remembered session first), loads
// their tasks, and enters the main menu loop until quit.
func (a *App) Run() error {
	ctx := context.Background()

	account, err := a.auth.CurrentAccount(ctx)
	if err != nil {
		return err
	}
	if account == nil {
		account, err = a.signIn(ctx)
		if err != nil {
			return err
		}
		if account == nil {
			return nil // user chose to quit at the auth menu
		}
	}
	a.logger.Info("signed in", "email", account.Email)

	if err := a.tasks.Load(ctx, account.ID); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	for {
		fmt.Println(renderTaskList(a.tasks, a.categories))

		var choice string
		menu := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s — %d shown", account.Name, len(a.tasks.View()))).
				Options(
					huh.NewOption("Add task", "add"),
					huh.NewOption("Toggle done", "toggle"),
					huh.NewOption("Edit task", "edit"),
					huh.NewOption("Delete task", "delete"),
					huh.NewOption("Move task", "move"),
					huh.NewOption("Filters & sort", "filters"),
					huh.NewOption("Clear completed", "clear"),
					huh.NewOption("Categories", "categories"),
					huh.NewOption("Statistics", "stats"),
					huh.NewOption("Profile", "profile"),
					huh.NewOption("Sign out", "signout"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&choice),
		))
		if err := menu.Run(); err != nil {
			return err
		}

		switch choice {
		case "add":
			err = a.addTask(ctx)
		case "toggle":
			err = a.toggleTask()
		case "edit":
			err = a.editTask()
		case "delete":
			err = a.deleteTask(ctx)
		case "move":
			err = a.moveTask(ctx)
		case "filters":
			err = a.editFilters()
		case "clear":
			var n int
			n, err = a.tasks.ClearCompleted(ctx)
			if err == nil {
				a.logger.Info("cleared completed tasks", "count", n)
			}
		case "categories":
			err = a.manageCategories()
		case "stats":
			fmt.Println(renderStats(stats.Summarize(a.tasks.Tasks(), time.Now())))
		case "profile":
			err = a.editProfile(ctx, account)
		case "signout":
			if err := a.auth.SignOut(); err != nil {
				return err
			}
			a.logger.Info("signed out")
			return nil
		case "quit":
			return nil
		}
		if err != nil {
			a.logger.Error("operation failed", "action", choice, "error", err)
			err = nil
		}
	}
}

// signIn loops the auth menu until a session exists or the user quits.
func (a *App) signIn(ctx context.Context) (*model.Account, error) {
	for {
		var choice string
		menu := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Welcome to TodoPro").
				Options(
					huh.NewOption("Log in", "login"),
					huh.NewOption("Register", "register"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&choice),
		))
		if err := menu.Run(); err != nil {
			return nil, err
		}

		switch choice {
		case "login":
			email, password, err := credentialsForm(false)
			if err != nil {
				return nil, err
			}
			account, err := a.auth.Login(ctx, email, password)
			if errors.Is(err, auth.ErrInvalidCredentials) {
				fmt.Println("Invalid email or password.")
				continue
			}
			if err != nil {
				return nil, err
			}
			return account, nil
		case "register":
			account, err := a.register(ctx)
			if err != nil {
				return nil, err
			}
			if account != nil {
				return account, nil
			}
		case "quit":
			return nil, nil
		}
	}
}

func (a *App) register(ctx context.Context) (*model.Account, error) {
	var name string
	email, password, err := credentialsForm(true)
	if err != nil {
		return nil, err
	}
	nameForm := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Display name").Value(&name),
	))
	if err := nameForm.Run(); err != nil {
		return nil, err
	}

	account, err := a.auth.Register(ctx, email, password, name)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		fmt.Println("That email is already registered.")
		return nil, nil
	case errors.Is(err, auth.ErrInvalidInput):
		fmt.Println("Email and password are required.")
		return nil, nil
	case err != nil:
		return nil, err
	}
	return account, nil
}

func (a *App) addTask(ctx context.Context) error {
	draft, ok, err := taskForm(a.categories)
	if err != nil || !ok {
		return err
	}

	task, err := a.tasks.Add(ctx, draft)
	if errors.Is(err, store.ErrInvalidInput) {
		fmt.Println("A task needs a non-empty title of at most 200 characters.")
		return nil
	}
	if err != nil {
		return err
	}
	a.logger.Debug("task added", "id", task.ID, "title", task.Title)
	return nil
}

func (a *App) toggleTask() error {
	task, err := pickTask(a.tasks.View(), "Toggle which task?")
	if err != nil || task == nil {
		return err
	}
	task.SetDone(!task.IsDone)
	return nil
}

func (a *App) editTask() error {
	task, err := pickTask(a.tasks.View(), "Edit which task?")
	if err != nil || task == nil {
		return err
	}

	var what string
	menu := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(task.Title).
			Options(
				huh.NewOption("Fields", "fields"),
				huh.NewOption("Subtasks", "subtasks"),
				huh.NewOption("Back", "back"),
			).
			Value(&what),
	))
	if err := menu.Run(); err != nil {
		return formCancel(err)
	}

	switch what {
	case "fields":
		return editTaskForm(task, a.categories)
	case "subtasks":
		return manageSubtasks(task)
	}
	return nil
}

func (a *App) deleteTask(ctx context.Context) error {
	task, err := pickTask(a.tasks.View(), "Delete which task?")
	if err != nil || task == nil {
		return err
	}
	return a.tasks.Delete(ctx, task)
}

func (a *App) moveTask(ctx context.Context) error {
	if !a.tasks.CanReorder() {
		fmt.Println("Switch to manual sort and clear all filters to move tasks.")
		return nil
	}
	from, to, ok, err := movePositions(len(a.tasks.View()))
	if err != nil || !ok {
		return err
	}
	return a.tasks.Reorder(ctx, from, to)
}

func (a *App) editProfile(ctx context.Context, account *model.Account) error {
	name := account.Name
	themeChoice := a.prefs.Theme()
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Display name").Value(&name),
		huh.NewSelect[string]().
			Title("Theme").
			Options(
				huh.NewOption("System", "system"),
				huh.NewOption("Light", "light"),
				huh.NewOption("Dark", "dark"),
			).
			Value(&themeChoice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if themeChoice != a.prefs.Theme() {
		if err := a.prefs.SetTheme(themeChoice); err != nil {
			return err
		}
	}

	if err := a.auth.UpdateDisplayName(ctx, name); err != nil {
		if errors.Is(err, auth.ErrInvalidInput) {
			fmt.Println("Display name cannot be blank.")
			return nil
		}
		return err
	}
	account.Name = name
	return nil
}

func (a *App) manageCategories() error {
	var choice string
	menu := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Categories").
			Options(
				huh.NewOption("List", "list"),
				huh.NewOption("Add", "add"),
				huh.NewOption("Back", "back"),
			).
			Value(&choice),
	))
	if err := menu.Run(); err != nil {
		return err
	}

	switch choice {
	case "list":
		fmt.Println(renderCategories(a.categories))
	case "add":
		var name string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Category name").Value(&name),
		))
		if err := form.Run(); err != nil {
			return err
		}
		_, err := a.categories.Add(name)
		return err
	}
	return nil
}
