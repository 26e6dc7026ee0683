// Package profile keeps per-branch statistics for the sites that execute
// most recently, using Akita's cache directory as a bounded set-associative
// store with LRU replacement.
package profile

import (
	"cmp"
	"slices"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/driver"
	"github.com/sarchlab/bpsim/predictor"
)

// Config holds the profile geometry.
type Config struct {
	// Sets is the number of sets.
	Sets int
	// Ways is the number of sites each set holds.
	Ways int
}

// DefaultConfig returns a 64-set, 4-way profile (256 sites).
func DefaultConfig() Config {
	return Config{
		Sets: 64,
		Ways: 4,
	}
}

// Entry is the profile of one branch site.
type Entry struct {
	PC             uint32 `json:"pc" yaml:"pc"`
	Executions     uint64 `json:"executions" yaml:"executions"`
	Taken          uint64 `json:"taken" yaml:"taken"`
	Mispredictions uint64 `json:"mispredictions" yaml:"mispredictions"`
}

// MispredictionRate returns the share of executions mispredicted, as a
// percentage.
func (e Entry) MispredictionRate() float64 {
	if e.Executions == 0 {
		return 0
	}
	return float64(e.Mispredictions) / float64(e.Executions) * 100
}

// Statistics holds profile bookkeeping counters.
type Statistics struct {
	Lookups   uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Profile records executions, taken counts and mispredictions per branch
// site. When a set is full the least recently executed site is dropped.
type Profile struct {
	config Config

	// Akita cache directory for tag/LRU management
	directory *akitacache.DirectoryImpl

	// Site counters, indexed by (setID * ways + wayID)
	entries []Entry

	stats Statistics
}

// New creates a profile with the given geometry.
func New(config Config) *Profile {
	if config.Sets <= 0 || config.Ways <= 0 {
		panic("profile: sets and ways must be > 0")
	}

	return &Profile{
		config: config,
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Ways,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		entries: make([]Entry, config.Sets*config.Ways),
	}
}

// Config returns the profile geometry.
func (p *Profile) Config() Config {
	return p.config
}

// Stats returns the profile bookkeeping counters.
func (p *Profile) Stats() Statistics {
	return p.stats
}

// siteKey maps a PC to a directory address. The mapping is a bijection on
// 32 bits that spreads aligned PCs over all sets.
func siteKey(pc uint32) uint64 {
	h := pc
	h ^= h >> 16
	h *= 0x45d9f3b
	h ^= h >> 16
	return uint64(h)
}

func (p *Profile) entryIndex(block *akitacache.Block) int {
	return block.SetID*p.config.Ways + block.WayID
}

// Record adds one execution of the branch at pc.
func (p *Profile) Record(pc uint32, outcome predictor.Outcome, correct bool) {
	p.stats.Lookups++
	key := siteKey(pc)

	block := p.directory.Lookup(0, key)
	if block != nil && block.IsValid {
		p.stats.Hits++
	} else {
		p.stats.Misses++
		block = p.allocate(key, pc)
	}
	p.directory.Visit(block)

	e := &p.entries[p.entryIndex(block)]
	e.Executions++
	if outcome == predictor.Taken {
		e.Taken++
	}
	if !correct {
		e.Mispredictions++
	}
}

func (p *Profile) allocate(key uint64, pc uint32) *akitacache.Block {
	victim := p.directory.FindVictim(key)
	if victim.IsValid {
		p.stats.Evictions++
	}

	victim.Tag = key
	victim.IsValid = true
	victim.IsDirty = false
	p.entries[p.entryIndex(victim)] = Entry{PC: pc}

	return victim
}

// Func records the branch carried by a driver branch event.
func (p *Profile) Func(ctx sim.HookCtx) {
	if ctx.Pos != driver.HookPosBranch {
		return
	}

	event := ctx.Item.(driver.BranchEvent)
	p.Record(event.Record.PC, event.Record.Outcome, event.Correct())
}

// Lookup returns the profile of the site at pc, if it is resident.
func (p *Profile) Lookup(pc uint32) (Entry, bool) {
	block := p.directory.Lookup(0, siteKey(pc))
	if block == nil || !block.IsValid {
		return Entry{}, false
	}
	return p.entries[p.entryIndex(block)], true
}

// Entries returns every resident site, ordered by PC.
func (p *Profile) Entries() []Entry {
	var entries []Entry
	for _, set := range p.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid {
				entries = append(entries, p.entries[p.entryIndex(block)])
			}
		}
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.PC, b.PC)
	})
	return entries
}

// Top returns up to n resident sites with the most mispredictions. Ties are
// ordered by PC.
func (p *Profile) Top(n int) []Entry {
	entries := p.Entries()
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Mispredictions, a.Mispredictions)
	})

	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Reset drops every site and clears the counters.
func (p *Profile) Reset() {
	p.directory.Reset()
	for i := range p.entries {
		p.entries[i] = Entry{}
	}
	p.stats = Statistics{}
}
