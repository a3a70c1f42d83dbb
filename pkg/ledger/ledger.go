package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Record is one HIT created from this machine.
type Record struct {
	HITID       string    `json:"hit_id"`
	HITTypeID   string    `json:"hit_type_id,omitempty"`
	HITGroupID  string    `json:"hit_group_id,omitempty"`
	Preset      string    `json:"preset"`
	Endpoint    string    `json:"endpoint"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Live reports whether the HIT is still accepting workers at now.
func (r Record) Live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// Ledger is a JSON file of created HITs keyed by HIT ID. Generations counts
// every HIT ever added per fingerprint and is not reduced by Prune.
type Ledger struct {
	Records     map[string]Record `json:"records"`
	Generations map[string]int    `json:"generations,omitempty"`
	Path        string            `json:"-"`
	mu          sync.RWMutex
	dirty       bool
}

// Open loads the ledger at path. A missing file yields an empty ledger.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		Records:     make(map[string]Record),
		Generations: make(map[string]int),
		Path:        path,
	}

	if _, err := os.Stat(path); err == nil {
		if err := l.Load(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Ledger) Load() error {
	f, err := os.Open(l.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.Records, l.Generations = nil, nil
	if err := json.NewDecoder(f).Decode(l); err != nil {
		return errors.Wrapf(err, "failed to decode ledger %s", l.Path)
	}
	if l.Records == nil {
		l.Records = make(map[string]Record)
	}
	// Files written before generations were tracked.
	if l.Generations == nil {
		l.Generations = make(map[string]int)
		for _, r := range l.Records {
			l.Generations[r.Fingerprint]++
		}
	}
	return nil
}

// Save writes the ledger if it changed since the last load or save.
func (l *Ledger) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(l.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l); err != nil {
		return err
	}
	l.dirty = false
	return nil
}

func (l *Ledger) Add(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	old, exists := l.Records[r.HITID]
	if exists && old == r {
		return
	}
	if !exists {
		l.Generations[r.Fingerprint]++
	}
	l.Records[r.HITID] = r
	l.dirty = true
}

// Lookup returns the newest HIT with the given fingerprint that is still live
// at now.
func (l *Ledger) Lookup(fingerprint string, now time.Time) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		found Record
		ok    bool
	)
	for _, r := range l.Records {
		if r.Fingerprint != fingerprint || !r.Live(now) {
			continue
		}
		if !ok || r.CreatedAt.After(found.CreatedAt) {
			found, ok = r, true
		}
	}
	return found, ok
}

// Count returns how many HITs were ever recorded with fingerprint, including
// pruned ones.
func (l *Ledger) Count(fingerprint string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.Generations[fingerprint]
}

// All returns every record, oldest first.
func (l *Ledger) All() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sorted(func(Record) bool { return true })
}

// Expired returns the records whose lifetime ended before now, oldest first.
func (l *Ledger) Expired(now time.Time) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sorted(func(r Record) bool { return !r.Live(now) })
}

// Prune removes and returns the expired records.
func (l *Ledger) Prune(now time.Time) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	expired := l.sorted(func(r Record) bool { return !r.Live(now) })
	for _, r := range expired {
		delete(l.Records, r.HITID)
		l.dirty = true
	}
	return expired
}

func (l *Ledger) sorted(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range l.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].HITID < out[j].HITID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
