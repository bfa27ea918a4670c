// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package delta computes changes of a project's file set between two
// points in time.
//
//	snap := delta.Start(desc)
//	... refresh or bulk edit ...
//	d := delta.End(snap, true, logger)
package delta

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/makeproj/nativefile"
)

// Source provides the current project items.
type Source interface {
	ProjectItems() []nativefile.Item
}

// StandardHeaders is implemented by sources that also index standard
// headers.
type StandardHeaders interface {
	StandardHeaderItems() []nativefile.Item
}

// Consumer is implemented by sources that dispatch a delta to their
// listeners.
type Consumer interface {
	ApplyDelta(d *Delta)
}

type entry struct {
	item     nativefile.Item
	crc      int32
	excluded bool
}

// Snapshot is the state of a project's file set.
type Snapshot struct {
	ID      string
	src     Source
	started time.Time
	entries map[string]entry
}

// Len returns number of files in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

func items(src Source) []nativefile.Item {
	all := src.ProjectItems()
	if sh, ok := src.(StandardHeaders); ok {
		all = append(all, sh.StandardHeaderItems()...)
	}
	return all
}

// fingerprint computes entries of items in parallel.
// Items must be comparable (e.g. pointers) and safe for concurrent
// reads.
func fingerprint(all []nativefile.Item) map[string]entry {
	entries := make([]entry, len(all))
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, item := range all {
		eg.Go(func() error {
			entries[i] = entry{
				item:     item,
				crc:      CRC(item),
				excluded: item.IsExcluded(),
			}
			return nil
		})
	}
	_ = eg.Wait()
	m := make(map[string]entry, len(entries))
	for _, e := range entries {
		p := e.item.AbsolutePath()
		if _, dup := m[p]; dup {
			log.Debugf("duplicate file %s in snapshot", p)
			continue
		}
		m[p] = e
	}
	return m
}

// Start captures the current file set of src.
func Start(src Source) *Snapshot {
	s := &Snapshot{
		ID:      uuid.NewString(),
		src:     src,
		started: time.Now(),
		entries: fingerprint(items(src)),
	}
	log.Debugf("snapshot %s: %d files", s.ID, len(s.entries))
	return s
}

// Delta is the classification of files between a snapshot and now.
// Each list is sorted by absolute path.
type Delta struct {
	ID       string
	Added    []nativefile.Item
	Deleted  []nativefile.Item
	Excluded []nativefile.Item
	Included []nativefile.Item
	Changed  []nativefile.Item
	Replaced []nativefile.Item
}

// IsEmpty reports whether all lists are empty.
func (d *Delta) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Deleted) == 0 &&
		len(d.Excluded) == 0 &&
		len(d.Included) == 0 &&
		len(d.Changed) == 0 &&
		len(d.Replaced) == 0
}

// IsViewChanged reports whether the file set itself changed, i.e.
// anything besides property changes.
func (d *Delta) IsViewChanged() bool {
	return len(d.Added)+len(d.Deleted)+len(d.Excluded)+len(d.Included)+len(d.Replaced) > 0
}

func (d *Delta) String() string {
	return fmt.Sprintf("added=%d deleted=%d excluded=%d included=%d changed=%d replaced=%d",
		len(d.Added), len(d.Deleted), len(d.Excluded), len(d.Included), len(d.Changed), len(d.Replaced))
}

// Report writes the delta to logger.
func (d *Delta) Report(logger *log.Logger) {
	logger.Infof("delta %s: %s", d.ID, d)
	for _, l := range []struct {
		name  string
		items []nativefile.Item
	}{
		{"added", d.Added},
		{"deleted", d.Deleted},
		{"excluded", d.Excluded},
		{"included", d.Included},
		{"changed", d.Changed},
		{"replaced", d.Replaced},
	} {
		for _, item := range l.items {
			logger.Debugf("  %s %s", l.name, item.AbsolutePath())
		}
	}
}

// End compares snap with the current file set of its source.
// If sendEvent is true and the delta is not empty, it is dispatched
// to the source if it is a Consumer. If logger is not nil, the delta
// is reported to it.
func End(snap *Snapshot, sendEvent bool, logger *log.Logger) *Delta {
	return EndSource(snap, snap.src, sendEvent, logger)
}

// EndSource is like End, but compares snap with the file set of src,
// e.g. a reloaded project that replaced the snapshot's source.
// The delta is dispatched to src.
func EndSource(snap *Snapshot, src Source, sendEvent bool, logger *log.Logger) *Delta {
	d := &Delta{ID: snap.ID}
	matched := make(map[string]bool, len(snap.entries))
	for p, cur := range fingerprint(items(src)) {
		old, ok := snap.entries[p]
		if !ok {
			d.Added = append(d.Added, cur.item)
			continue
		}
		matched[p] = true
		switch {
		case cur.excluded && old.excluded:
			d.Replaced = append(d.Replaced, cur.item)
		case cur.excluded:
			d.Excluded = append(d.Excluded, cur.item)
		case old.excluded:
			d.Included = append(d.Included, cur.item)
		case cur.crc != old.crc:
			d.Changed = append(d.Changed, cur.item)
		case cur.item != old.item:
			d.Replaced = append(d.Replaced, cur.item)
		}
	}
	for p, old := range snap.entries {
		if !matched[p] {
			d.Deleted = append(d.Deleted, old.item)
		}
	}
	for _, l := range [][]nativefile.Item{d.Added, d.Deleted, d.Excluded, d.Included, d.Changed, d.Replaced} {
		sortItems(l)
	}
	if logger != nil {
		logger.Debugf("delta %s computed in %s", d.ID, time.Since(snap.started))
		d.Report(logger)
	}
	if sendEvent && !d.IsEmpty() {
		if c, ok := src.(Consumer); ok {
			c.ApplyDelta(d)
		}
	}
	return d
}

func sortItems(items []nativefile.Item) {
	sort.Slice(items, func(i, j int) bool {
		return strings.Compare(items[i].AbsolutePath(), items[j].AbsolutePath()) < 0
	})
}
