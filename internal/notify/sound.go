package notify

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// SoundPlayer plays the notification sound. Playback is always
// best-effort; callers log failures and move on.
type SoundPlayer interface {
	Play(volume float64) error
}

// CommandPlayer runs an external player command. The command may contain
// a {volume} placeholder which is replaced with the volume as a 0-100
// percentage.
type CommandPlayer struct {
	command string
}

func NewCommandPlayer(command string) *CommandPlayer {
	return &CommandPlayer{command: command}
}

func (p *CommandPlayer) Play(volume float64) error {
	if p.command == "" {
		// No player configured: fall back to the terminal bell.
		_, err := fmt.Fprint(os.Stdout, "\a")
		return err
	}

	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	command := strings.ReplaceAll(p.command, "{volume}", fmt.Sprintf("%d", int(volume*100)))
	parts := strings.Fields(command)

	cmd := exec.Command(parts[0], parts[1:]...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("sound command failed: %w", err)
	}
	return nil
}
