// Package repl implements the interactive remindctl shell.
package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/notexe/reminderd/internal/notify"
	"github.com/notexe/reminderd/internal/reminder"
	"github.com/notexe/reminderd/internal/ui"
)

// DigestRunner triggers an immediate reminder digest.
type DigestRunner interface {
	RunOnce(ctx context.Context)
}

type REPL struct {
	client     *reminder.Client
	manager    *notify.Manager
	dispatcher *notify.Dispatcher
	digest     DigestRunner // may be nil
	rl         *readline.Instance
	formatter  *ui.Formatter
}

func NewREPL(client *reminder.Client, manager *notify.Manager, dispatcher *notify.Dispatcher, digest DigestRunner, colored bool) (*REPL, error) {
	rl, err := setupReadline()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	return &REPL{
		client:     client,
		manager:    manager,
		dispatcher: dispatcher,
		digest:     digest,
		rl:         rl,
		formatter:  ui.NewFormatter(colored),
	}, nil
}

// Execute runs a single command non-interactively, for one-shot CLI use.
func (r *REPL) Execute(ctx context.Context, args []string) error {
	defer r.rl.Close()

	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}
	return r.handleCommand(ctx, strings.ToLower(args[0]), args[1:])
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		command, args := r.parseCommand(input)
		if command == "quit" || command == "exit" {
			fmt.Println("Goodbye!")
			return nil
		}

		if err := r.handleCommand(ctx, command, args); err != nil {
			fmt.Println(r.formatter.FormatError(err))
		}
	}
}

func (r *REPL) handleCommand(ctx context.Context, command string, args []string) error {
	switch command {
	case "help":
		r.displayHelp()
		return nil

	case "list":
		status := ""
		if len(args) > 0 {
			status = args[0]
		}
		return r.list(ctx, status)

	case "pending":
		reminders, err := r.client.Pending(ctx)
		if err != nil {
			return err
		}
		fmt.Println(r.formatter.FormatReminderList(reminders))
		return nil

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <id>")
		}
		return r.show(ctx, args[0])

	case "add":
		return r.add(ctx, args)

	case "complete":
		if len(args) != 1 {
			return fmt.Errorf("usage: complete <id>")
		}
		if err := r.client.Complete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(r.formatter.FormatSuccess("Reminder completed."))
		return nil

	case "snooze":
		return r.snooze(ctx, args)

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <id>")
		}
		if err := r.client.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println(r.formatter.FormatSuccess("Reminder deleted."))
		return nil

	case "settings":
		r.displaySettings()
		return nil

	case "enable", "disable":
		on := command == "enable"
		if err := r.manager.UpdateSettings(notify.SettingsUpdate{Enabled: &on}); err != nil {
			return err
		}
		if on {
			fmt.Println(r.formatter.FormatSuccess("Notifications enabled."))
		} else {
			fmt.Println(r.formatter.FormatSuccess("Notifications disabled."))
		}
		return nil

	case "digest":
		if r.digest == nil {
			return fmt.Errorf("digest is not configured (see the digest section of the config file)")
		}
		r.digest.RunOnce(ctx)
		fmt.Println(r.formatter.FormatSuccess("Digest triggered."))
		return nil

	case "set":
		return r.set(args)

	case "permission":
		if r.manager.RequestPermission(ctx) {
			fmt.Println(r.formatter.FormatSuccess("Permission granted, notifications enabled."))
		} else {
			fmt.Println(r.formatter.FormatWarning(
				fmt.Sprintf("Permission not granted (state: %s).", r.manager.Permission())))
		}
		return nil

	case "test":
		if r.dispatcher.SendTest(ctx) {
			fmt.Println(r.formatter.FormatSuccess("Test notification sent."))
		} else {
			fmt.Println(r.formatter.FormatWarning(
				"Test notification failed. Check permission and settings."))
		}
		return nil

	default:
		return fmt.Errorf("unknown command: %s (try help)", command)
	}
}

func (r *REPL) list(ctx context.Context, status string) error {
	reminders, err := r.client.List(ctx)
	if err != nil {
		return err
	}

	if status != "" {
		filtered := reminders[:0]
		for _, rem := range reminders {
			if rem.Status == status {
				filtered = append(filtered, rem)
			}
		}
		reminders = filtered
	}

	fmt.Println(r.formatter.FormatReminderList(reminders))
	return nil
}

func (r *REPL) show(ctx context.Context, id string) error {
	reminders, err := r.client.List(ctx)
	if err != nil {
		return err
	}
	for _, rem := range reminders {
		if rem.ID == id {
			fmt.Println(r.formatter.FormatReminderDetail(rem))
			return nil
		}
	}
	return fmt.Errorf("reminder %s not found", id)
}

func (r *REPL) add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add <due RFC3339> <title...>")
	}

	due, err := time.Parse(time.RFC3339, args[0])
	if err != nil {
		return fmt.Errorf("invalid due date: %w (use RFC3339, e.g. 2025-01-15T09:00:00Z)", err)
	}

	created, err := r.client.Create(ctx, reminder.Reminder{
		Title:    strings.Join(args[1:], " "),
		DueDate:  due,
		Priority: reminder.PriorityMedium,
	})
	if err != nil {
		return err
	}

	fmt.Println(r.formatter.FormatSuccess("Added reminder " + created.ID))
	return nil
}

func (r *REPL) snooze(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: snooze <id> <duration> (e.g. 30m, 2h)")
	}

	d, err := time.ParseDuration(args[1])
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	until := time.Now().Add(d)
	if err := r.client.Snooze(ctx, args[0], until); err != nil {
		return err
	}

	fmt.Println(r.formatter.FormatSuccess(
		fmt.Sprintf("Snoozed until %s.", until.Format("Mon Jan 2 15:04"))))
	return nil
}

func (r *REPL) displaySettings() {
	s := r.manager.Settings()
	fmt.Printf("enabled:    %v\n", s.Enabled)
	fmt.Printf("sound:      %v (volume %.0f%%)\n", s.SoundEnabled, s.SoundVolume*100)
	fmt.Printf("background: %v\n", s.ShowInBackground)
	fmt.Printf("types:      overdue=%v upcoming=%v recurrence=%v\n",
		s.NotificationTypes.Overdue, s.NotificationTypes.Upcoming, s.NotificationTypes.Recurrence)
	fmt.Printf("permission: %s\n", r.manager.Permission())
}

func (r *REPL) set(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set <enabled|sound|volume|background|overdue|upcoming|recurrence> <value>")
	}

	key, value := args[0], args[1]
	var update notify.SettingsUpdate

	if key == "volume" {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || v > 1 {
			return fmt.Errorf("volume must be a number between 0 and 1")
		}
		update.SoundVolume = &v
	} else {
		on, err := parseBool(value)
		if err != nil {
			return err
		}
		switch key {
		case "enabled":
			update.Enabled = &on
		case "sound":
			update.SoundEnabled = &on
		case "background":
			update.ShowInBackground = &on
		case "overdue":
			update.Overdue = &on
		case "upcoming":
			update.Upcoming = &on
		case "recurrence":
			update.Recurrence = &on
		default:
			return fmt.Errorf("unknown setting: %s", key)
		}
	}

	if err := r.manager.UpdateSettings(update); err != nil {
		return err
	}
	fmt.Println(r.formatter.FormatSuccess("Settings updated."))
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
