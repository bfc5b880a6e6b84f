// Package notify plays pre-recorded announcements through the
// appliance's voice subsystem.
package notify

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"gw-netwatch/internal/common"
)

// Event identifies an announcement.
type Event string

// Announcement events.
const (
	EventReconnected Event = "reconnected"
	EventLost        Event = "lost"
)

// Notifier announces connectivity events. Announcements are
// best-effort; failures never reach the caller.
type Notifier interface {
	Announce(ctx context.Context, event Event)
}

// playbackTimeout bounds a single announcement so a wedged player
// cannot stall the monitor loop.
const playbackTimeout = 30 * time.Second

// soundNotifier shells out to the configured player binary.
type soundNotifier struct {
	playerCommand string
	soundDir      string
	logger        *slog.Logger
}

// NewSoundNotifier creates a notifier playing <soundDir>/<event>.wav
// through the player command.
func NewSoundNotifier(playerCommand, soundDir string, logger *slog.Logger) Notifier {
	return &soundNotifier{
		playerCommand: playerCommand,
		soundDir:      soundDir,
		logger:        logger,
	}
}

// Announce implements Notifier.
func (n *soundNotifier) Announce(ctx context.Context, event Event) {
	file := n.soundFile(event)
	if _, err := os.Stat(file); err != nil {
		n.logger.Warn("announcement sound missing",
			"event", string(event),
			"file", file)
		return
	}

	err := common.WithTimeout(ctx, playbackTimeout, func(ctx context.Context) error {
		return exec.CommandContext(ctx, n.playerCommand, file).Run()
	})
	if err != nil {
		n.logger.Warn("announcement playback failed",
			"event", string(event),
			"file", file,
			"error", err)
		return
	}

	n.logger.Debug("announcement played", "event", string(event))
}

func (n *soundNotifier) soundFile(event Event) string {
	return filepath.Join(n.soundDir, string(event)+".wav")
}
