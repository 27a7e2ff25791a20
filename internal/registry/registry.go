// Package registry is the in-memory store of activities and their rosters.
package registry

import (
	"sort"
	"sync"

	apperrors "activity-registry/internal/common/errors"
	"activity-registry/pkg/catalog"
)

// Activity is a named extracurricular offering with a schedule, a capacity
// and an ordered roster of participant emails.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

func (a *Activity) clone() Activity {
	out := *a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

func (a *Activity) indexOf(email string) int {
	for i, p := range a.Participants {
		if p == email {
			return i
		}
	}
	return -1
}

// RosterStat is the roster size and capacity of one activity.
type RosterStat struct {
	Name     string
	Size     int
	Capacity int
}

// Registry owns the activity map. The set of activities is fixed at
// construction; only rosters change afterwards.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*Activity
}

// New seeds a registry from a validated catalog.
func New(cat *catalog.Catalog) (*Registry, error) {
	if err := cat.Validate(); err != nil {
		return nil, apperrors.NewInvalidCatalogError(err.Error())
	}

	activities := make(map[string]*Activity, len(cat.Activities))
	for _, a := range cat.Activities {
		participants := make([]string, len(a.Participants))
		copy(participants, a.Participants)
		activities[a.Name] = &Activity{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    participants,
		}
	}
	return &Registry{activities: activities}, nil
}

// NewDefault seeds a registry from the embedded catalog.
func NewDefault() (*Registry, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, apperrors.NewInvalidCatalogError(err.Error())
	}
	return New(cat)
}

// List returns a deep copy of every activity keyed by name.
func (r *Registry) List() map[string]Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.clone()
	}
	return out
}

// Get returns a copy of one activity.
func (r *Registry) Get(name string) (Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return Activity{}, apperrors.NewActivityNotFoundError(name)
	}
	return a.clone(), nil
}

// Names returns the activity names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.activities))
	for name := range r.activities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns roster sizes ordered by activity name.
func (r *Registry) Stats() []RosterStat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make([]RosterStat, 0, len(r.activities))
	for name, a := range r.activities {
		stats = append(stats, RosterStat{Name: name, Size: len(a.Participants), Capacity: a.MaxParticipants})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// Enroll appends email to the activity roster. Checks run in order:
// unknown activity, duplicate email, full roster.
func (r *Registry) Enroll(name, email string) (RosterStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return RosterStat{}, apperrors.NewActivityNotFoundError(name)
	}
	if a.indexOf(email) >= 0 {
		return RosterStat{}, apperrors.NewAlreadyEnrolledError(name, email)
	}
	if len(a.Participants) >= a.MaxParticipants {
		return RosterStat{}, apperrors.NewCapacityExceededError(name, a.MaxParticipants)
	}

	a.Participants = append(a.Participants, email)
	return RosterStat{Name: name, Size: len(a.Participants), Capacity: a.MaxParticipants}, nil
}

// Unenroll removes one occurrence of email from the roster, keeping the
// order of the remaining participants.
func (r *Registry) Unenroll(name, email string) (RosterStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return RosterStat{}, apperrors.NewActivityNotFoundError(name)
	}
	idx := a.indexOf(email)
	if idx < 0 {
		return RosterStat{}, apperrors.NewNotEnrolledError(name, email)
	}

	a.Participants = append(a.Participants[:idx], a.Participants[idx+1:]...)
	return RosterStat{Name: name, Size: len(a.Participants), Capacity: a.MaxParticipants}, nil
}
