package notify

import (
	"comandero/internal/domain"
	"comandero/internal/logger"
)

// Kind names the audible notifications a station can receive.
type Kind string

const (
	KindFoodReady Kind = "food-ready"
	KindNewDrinks Kind = "new-drinks"
	KindNewFood   Kind = "new-food"
)

// sounds maps each notification to its audio asset, distinct per category.
var sounds = map[Kind]string{
	KindFoodReady: "sounds/that-was-quick-606.mp3",
	KindNewDrinks: "sounds/bonus-points-190035.mp3",
	KindNewFood:   "sounds/bonus-points-190035.mp3",
}

// roleFor gates each notification to the single role it concerns.
var roleFor = map[Kind]domain.Role{
	KindFoodReady: domain.RoleWaiter,
	KindNewDrinks: domain.RoleBarman,
	KindNewFood:   domain.RoleCook,
}

type Notifier interface {
	Play(kind Kind)
}

// SoundNotifier is the playback seam for one signed-in staff member.
// Notifications for other roles are dropped silently. Actual audio output
// is the embedding UI's job; this emits the structured log line carrying
// the chosen sound.
type SoundNotifier struct {
	role domain.Role
	lg   *logger.Logger
}

func NewSoundNotifier(role domain.Role, lg *logger.Logger) *SoundNotifier {
	return &SoundNotifier{role: role, lg: lg}
}

func (n *SoundNotifier) Play(kind Kind) {
	if roleFor[kind] != n.role {
		return
	}
	n.lg.Info("notification_played", map[string]any{
		"kind":  string(kind),
		"sound": sounds[kind],
		"role":  string(n.role),
	})
}
