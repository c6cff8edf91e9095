package notify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Notification type constants used for classification-level opt-outs.
const (
	TypeOverdue    = "overdue"
	TypeUpcoming   = "upcoming"
	TypeRecurrence = "recurrence"
)

// Permission is the tri-state capability flag reported by the notification
// sink. It is only ever changed as the result of an explicit permission
// request.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// TypeSettings holds per-classification opt-outs.
type TypeSettings struct {
	Overdue    bool `json:"overdue"`
	Upcoming   bool `json:"upcoming"`
	Recurrence bool `json:"recurrence"`
}

// Enabled reports whether the given notification type is switched on.
func (t TypeSettings) Enabled(typ string) bool {
	switch typ {
	case TypeOverdue:
		return t.Overdue
	case TypeUpcoming:
		return t.Upcoming
	case TypeRecurrence:
		return t.Recurrence
	}
	return false
}

// Settings is the user-configurable notification configuration, persisted
// as a single JSON blob.
type Settings struct {
	Enabled           bool         `json:"enabled"`
	SoundEnabled      bool         `json:"soundEnabled"`
	SoundVolume       float64      `json:"soundVolume"` // 0.0 - 1.0
	ShowInBackground  bool         `json:"showInBackground"`
	NotificationTypes TypeSettings `json:"notificationTypes"`
}

// DefaultSettings returns the settings used when nothing has been
// persisted yet, or when the persisted blob is unreadable.
func DefaultSettings() Settings {
	return Settings{
		Enabled:          true,
		SoundEnabled:     true,
		SoundVolume:      0.7,
		ShowInBackground: true,
		NotificationTypes: TypeSettings{
			Overdue:    true,
			Upcoming:   true,
			Recurrence: true,
		},
	}
}

// SettingsUpdate holds optional fields for a partial settings update,
// merged into the current settings.
type SettingsUpdate struct {
	Enabled          *bool    `json:"enabled,omitempty"`
	SoundEnabled     *bool    `json:"soundEnabled,omitempty"`
	SoundVolume      *float64 `json:"soundVolume,omitempty"`
	ShowInBackground *bool    `json:"showInBackground,omitempty"`
	Overdue          *bool    `json:"overdue,omitempty"`
	Upcoming         *bool    `json:"upcoming,omitempty"`
	Recurrence       *bool    `json:"recurrence,omitempty"`
}

func (s Settings) merge(u SettingsUpdate) Settings {
	if u.Enabled != nil {
		s.Enabled = *u.Enabled
	}
	if u.SoundEnabled != nil {
		s.SoundEnabled = *u.SoundEnabled
	}
	if u.SoundVolume != nil {
		s.SoundVolume = *u.SoundVolume
	}
	if u.ShowInBackground != nil {
		s.ShowInBackground = *u.ShowInBackground
	}
	if u.Overdue != nil {
		s.NotificationTypes.Overdue = *u.Overdue
	}
	if u.Upcoming != nil {
		s.NotificationTypes.Upcoming = *u.Upcoming
	}
	if u.Recurrence != nil {
		s.NotificationTypes.Recurrence = *u.Recurrence
	}
	return s
}

// SettingsStore persists Settings as a JSON file at a fixed path.
type SettingsStore struct {
	path string
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Load reads the persisted settings. A missing or malformed file yields
// the defaults; the returned error is informational and the settings are
// always usable.
func (s *SettingsStore) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("failed to read settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		// Malformed stored value: discard in favor of defaults.
		return DefaultSettings(), fmt.Errorf("discarding malformed settings file: %w", err)
	}
	return settings, nil
}

// Save writes the settings blob, creating the parent directory if needed.
func (s *SettingsStore) Save(settings Settings) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
