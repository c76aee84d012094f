// Package tracker follows which process ids belong to the packages the user
// asked to watch, as processes start and die during a session.
package tracker

import (
	"fmt"
	"slices"
	"strings"
)

// Tracker holds the pid -> package ownership map. It is owned by a single
// goroutine and performs no locking.
type Tracker struct {
	owners    map[string]string
	named     []string
	catchall  []string
	activePID string
}

// splitPackages separates named-process filters (anything containing ':',
// with a trailing ':' removed) from catch-all package filters.
func splitPackages(packages []string) (named, catchall []string) {
	for _, p := range packages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, ":") {
			named = append(named, strings.TrimSuffix(p, ":"))
			continue
		}
		catchall = append(catchall, p)
	}
	return named, catchall
}

// New creates a tracker for packages, seeded with an initial pid -> name
// snapshot. The snapshot is copied.
func New(packages []string, snapshot map[string]string) *Tracker {
	named, catchall := splitPackages(packages)
	t := &Tracker{
		owners:   make(map[string]string, len(snapshot)),
		named:    named,
		catchall: catchall,
	}
	t.Seed(snapshot)
	return t
}

// Seed copies a pid -> name process snapshot into the owner map.
func (t *Tracker) Seed(snapshot map[string]string) {
	for pid, pkg := range snapshot {
		t.owners[pid] = pkg
	}
}

// WatchesAll reports whether no package filters were given.
func (t *Tracker) WatchesAll() bool {
	return len(t.named) == 0 && len(t.catchall) == 0
}

// IsCatchall reports whether name is exactly one of the catch-all packages.
func (t *Tracker) IsCatchall(name string) bool {
	return slices.Contains(t.catchall, name)
}

// IsMatchingPackage reports whether token is of interest: everything when no
// filters are set, an exact named-process match, or a catch-all match on the
// part before the first ':'.
func (t *Tracker) IsMatchingPackage(token string) bool {
	if t.WatchesAll() {
		return true
	}
	if slices.Contains(t.named, token) {
		return true
	}
	base, _, _ := strings.Cut(token, ":")
	return slices.Contains(t.catchall, base)
}

// RecordStart registers pid as owned by pkg when pkg is of interest and
// reports whether a start banner should be shown.
func (t *Tracker) RecordStart(pid, pkg string) bool {
	if !t.IsMatchingPackage(pkg) {
		return false
	}
	t.owners[pid] = pkg
	t.activePID = pid
	return true
}

// RecordDeath forgets pid when pkg is of interest and pid is currently
// tracked, reporting whether a death banner should be shown.
func (t *Tracker) RecordDeath(pid, pkg string) bool {
	if !t.IsMatchingPackage(pkg) {
		return false
	}
	if _, ok := t.owners[pid]; !ok {
		return false
	}
	delete(t.owners, pid)
	return true
}

// IsTracked reports whether pid has a known owner.
func (t *Tracker) IsTracked(pid string) bool {
	_, ok := t.owners[pid]
	return ok
}

// Owner returns the package owning pid, or UNKNOWN(pid).
func (t *Tracker) Owner(pid string) string {
	if pkg, ok := t.owners[pid]; ok {
		return pkg
	}
	return fmt.Sprintf("UNKNOWN(%s)", pid)
}

// ActivePID is the pid of the most recently started process of interest.
func (t *Tracker) ActivePID() string { return t.activePID }

// Len is the number of tracked pids.
func (t *Tracker) Len() int { return len(t.owners) }
