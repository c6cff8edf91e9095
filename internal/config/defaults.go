package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"backend": map[string]interface{}{
			"base_url": "http://localhost:8000",
			"timeout":  30,
		},
		"poller": map[string]interface{}{
			"check_interval":   60,  // classification pass every minute
			"refresh_interval": 300, // list refresh every five minutes
		},
		"notify": map[string]interface{}{
			"channel":       "console",
			"settings_file": "~/.reminderd/settings.json",
			"sound_command": "",
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
		"digest": map[string]interface{}{
			"enabled":  false,
			"schedule": "0 8 * * *",
			"provider": "none",
			"system_prompt": "You output ONLY valid Telegram HTML. No introductions, no thinking, no commentary. " +
				"Only use these HTML tags: <b> <i> <s> <code> <pre>. Never use <br> or <p> — use newlines instead. " +
				"Your entire output is sent directly to the user as-is.",
			"prompt_template": "Summarize the reminder list below. If the list is empty, respond with exactly: NO_REMINDERS\n\n" +
				"Group into Due/Overdue, Pending and Completed sections, one bullet per reminder with its priority " +
				"and a readable deadline. Keep it short.\n\nReminders:\n%s",
			"deepseek": map[string]interface{}{
				"api_key":  "",
				"base_url": "https://api.deepseek.com",
				"timeout":  120,
			},
			"ollama": map[string]interface{}{
				"api_key":  "",
				"base_url": "http://localhost:11434",
				"timeout":  120,
			},
			"model": map[string]interface{}{
				"name":        "deepseek-chat",
				"max_tokens":  2048,
				"temperature": 1.0,
			},
		},
		"cache": map[string]interface{}{
			"path": "~/.reminderd/reminders.db",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
		},
		"log": map[string]interface{}{
			"level": "info",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.reminderd/config.yaml"
}
