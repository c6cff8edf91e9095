package repl

import "fmt"

func (r *REPL) displayWelcome() {
	fmt.Println("remindctl — reminder management shell. Type help for commands, exit to quit.")
}

func (r *REPL) displayHelp() {
	fmt.Println(`Commands:
  list [status]          List reminders (pending, completed, snoozed, cancelled)
  pending                List pending reminders
  show <id>              Show one reminder in full
  add <due> <title...>   Add a reminder (due in RFC3339)
  complete <id>          Mark a reminder as completed
  snooze <id> <dur>      Snooze a reminder (e.g. 30m, 2h)
  delete <id>            Delete a reminder

  settings               Show notification settings
  set <key> <value>      Change a setting (enabled, sound, volume,
                         background, overdue, upcoming, recurrence)
  enable | disable       Toggle the notification master switch
  permission             Request notification permission
  test                   Send a test notification
  digest                 Compose and send a reminder digest now

  help                   Show this help
  exit                   Quit`)
}
