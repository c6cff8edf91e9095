package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager is the single source of truth for whether the system is allowed
// and configured to alert the user. All dispatch paths gate on CanSend.
type Manager struct {
	mu         sync.Mutex
	store      *SettingsStore
	sink       Sink
	settings   Settings
	permission Permission
	onChange   []func(Settings)
	log        *zap.SugaredLogger
}

// NewManager loads the persisted settings and wires the manager to the
// given sink. A malformed settings file is discarded in favor of defaults.
func NewManager(store *SettingsStore, sink Sink, log *zap.SugaredLogger) *Manager {
	settings, err := store.Load()
	if err != nil {
		log.Warnw("using default notification settings", "err", err)
	}

	return &Manager{
		store:      store,
		sink:       sink,
		settings:   settings,
		permission: PermissionDefault,
		log:        log,
	}
}

// OnChange registers a callback invoked (with the new settings) after
// every settings or permission change.
func (m *Manager) OnChange(fn func(Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Settings returns a copy of the current settings.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Permission returns the current permission state.
func (m *Manager) Permission() Permission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.permission
}

// Supported reports whether the configured sink can deliver at all.
func (m *Manager) Supported() bool {
	return m.sink != nil && m.sink.Supported()
}

// CanSend is the single authoritative dispatch gate: the sink must be
// supported, permission granted, and the master switch on.
func (m *Manager) CanSend() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sink != nil && m.sink.Supported() &&
		m.permission == PermissionGranted && m.settings.Enabled
}

// TypeEnabled reports whether the given classification is switched on.
func (m *Manager) TypeEnabled(typ string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.NotificationTypes.Enabled(typ)
}

// RequestPermission asks the sink for permission to deliver. A grant also
// flips the master switch on (granting permission implies the user wants
// alerts); a denial flips it off. Returns false silently when the sink is
// unsupported.
func (m *Manager) RequestPermission(ctx context.Context) bool {
	if !m.Supported() {
		return false
	}

	permission, err := m.sink.RequestPermission(ctx)
	if err != nil {
		m.log.Warnw("permission request failed", "err", err)
		return false
	}

	m.mu.Lock()
	m.permission = permission
	m.settings.Enabled = permission == PermissionGranted
	settings := m.settings
	m.mu.Unlock()

	if err := m.store.Save(settings); err != nil {
		m.log.Errorw("failed to persist settings", "err", err)
	}
	m.notifyChange(settings)

	return permission == PermissionGranted
}

// UpdateSettings merges a partial update into the current settings and
// persists the result. Disabling notifications triggers the registered
// change callbacks, which the dispatcher uses to close anything currently
// displayed.
func (m *Manager) UpdateSettings(update SettingsUpdate) error {
	m.mu.Lock()
	m.settings = m.settings.merge(update)
	settings := m.settings
	m.mu.Unlock()

	if err := m.store.Save(settings); err != nil {
		return err
	}
	m.notifyChange(settings)
	return nil
}

func (m *Manager) notifyChange(settings Settings) {
	m.mu.Lock()
	callbacks := make([]func(Settings), len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(settings)
	}
}
