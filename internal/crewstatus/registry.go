// Package crewstatus holds the in-memory online/offline state of every crew
// member together with their pending go-live request flag.
//
// State is ephemeral. A Registry starts empty and is rebuilt from the roster
// whenever the roster changes; every rebuild resets all members to offline
// with no pending request.
package crewstatus

import (
	"sync"

	"github.com/quipper/poc/crewcom/pkg/repositories/roster"
)

// Status is the on-air state of a crew member.
type Status string

const (
	Online  Status = "online"
	Offline Status = "offline"
)

// Record is the status of one crew member.
type Record struct {
	ID               int64  `json:"id"`
	Status           Status `json:"status"`
	RequestingToggle bool   `json:"requestingToggle"`
}

// Registry is safe for concurrent use. A single mutex guards the whole
// collection so a rebuild is never observed half done and no toggle lands on
// a record that a rebuild is discarding.
type Registry struct {
	mu      sync.RWMutex
	records []Record
	byID    map[int64]int
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[int64]int)}
}

// Rebuild replaces every record with a fresh offline record per member.
func (r *Registry) Rebuild(members []*roster.Member) {
	records := make([]Record, 0, len(members))
	byID := make(map[int64]int, len(members))
	for _, m := range members {
		if m == nil {
			continue
		}
		if _, dup := byID[m.ID]; dup {
			continue
		}
		byID[m.ID] = len(records)
		records = append(records, Record{ID: m.ID, Status: Offline})
	}

	r.mu.Lock()
	r.records = records
	r.byID = byID
	r.mu.Unlock()
}

// RequestToggle raises the pending request flag. It reports false when the id
// is unknown.
func (r *Registry) RequestToggle(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return false
	}
	r.records[i].RequestingToggle = true
	return true
}

// Acknowledge flips the member between online and offline and clears any
// pending request. It returns the new status, or false when the id is unknown.
func (r *Registry) Acknowledge(id int64) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return "", false
	}
	rec := &r.records[i]
	if rec.Status == Online {
		rec.Status = Offline
	} else {
		rec.Status = Online
	}
	rec.RequestingToggle = false
	return rec.Status, true
}

func (r *Registry) Get(id int64) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return Record{}, false
	}
	return r.records[i], true
}

// GetAll returns a copy of all records in roster order.
func (r *Registry) GetAll() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
