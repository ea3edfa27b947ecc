package sandbox

import "sync"

// MaxFDs is the fixed ceiling on live guest descriptors per instance.
// Guest descriptors 0, 1 and 2 are pre-installed as stdio, so MaxFDs must
// be at least 3 for an instance to do anything useful; the runtime uses a
// generous headroom above that.
const MaxFDs = 128

// entry is one live descriptor-table slot.
type entry struct {
	host     int
	filetype uint8
}

// FDTable is a single instance's mapping from small guest descriptor
// numbers to host descriptors. It never enumerates or closes a host
// descriptor it did not itself open, except as fd_renumber explicitly
// requests (see Renumber) — the host descriptor space is shared with the
// host process and any other instance, and this table only ever touches
// the slice of it its own allocations produced.
type FDTable struct {
	mu    sync.Mutex
	slots [MaxFDs]*entry
	next  int
}

// NewFDTable builds a table with standard streams pre-installed at guest
// descriptors 0 (stdin), 1 (stdout) and 2 (stderr), backed by the given
// host descriptors.
func NewFDTable(stdin, stdout, stderr int) *FDTable {
	t := &FDTable{next: 3}
	t.slots[0] = &entry{host: stdin, filetype: FiletypeCharacterDevice}
	t.slots[1] = &entry{host: stdout, filetype: FiletypeCharacterDevice}
	t.slots[2] = &entry{host: stderr, filetype: FiletypeCharacterDevice}
	return t
}

// IsStdio reports whether fd names one of the three pre-installed
// standard streams. fd_close and fd_seek both refuse to operate on them.
func (t *FDTable) IsStdio(fd uint32) bool {
	return fd < 3
}

// Allocate maps a freshly opened host descriptor to a guest descriptor.
// If hostFD is already present in the table (the same host descriptor
// registered twice), its existing guest index is returned unchanged —
// this is the required deduplication. Otherwise the next free index is
// assigned. Exhausting MaxFDs is a Trap: a well-behaved guest is expected
// to close what it opens, and a table this size should never legitimately
// fill up.
func (t *FDTable) Allocate(hostFD int, filetype uint8) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := 0; i < t.next; i++ {
		if s := t.slots[i]; s != nil && s.host == hostFD {
			return uint32(i)
		}
	}
	if t.next >= MaxFDs {
		trap("exhausted guest descriptor table (max %d)", MaxFDs)
	}
	fd := t.next
	t.slots[fd] = &entry{host: hostFD, filetype: filetype}
	t.next++
	return uint32(fd)
}

// Lookup resolves a guest descriptor to its host descriptor. ok is false
// for an unassigned or closed descriptor.
func (t *FDTable) Lookup(fd uint32) (hostFD int, filetype uint8, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd >= MaxFDs {
		return 0, 0, false
	}
	s := t.slots[fd]
	if s == nil {
		return 0, 0, false
	}
	return s.host, s.filetype, true
}

// Close removes a guest descriptor's mapping. It does not itself close
// the host descriptor — callers close the host side (via unix.Close) only
// after confirming via Lookup that the descriptor was live, so the two
// never run out of step.
func (t *FDTable) Close(fd uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd >= MaxFDs || t.slots[fd] == nil {
		return false
	}
	t.slots[fd] = nil
	return true
}

// Renumber aliases guest descriptor to onto from's host backing, then
// retires from. This mirrors POSIX dup2(from, to) followed by
// close(from): if to already named a distinct host descriptor, that
// descriptor is closed as part of the atomic replace (the caller is
// responsible for issuing that unix.Close — Renumber reports it via
// closeHost so the caller can do so outside the table's lock).
func (t *FDTable) Renumber(from, to uint32) (closeHost int, hadCloseHost bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if from >= MaxFDs || to >= MaxFDs || t.slots[from] == nil {
		return 0, false, false
	}
	fromEntry := t.slots[from]
	if old := t.slots[to]; old != nil && old.host != fromEntry.host {
		closeHost, hadCloseHost = old.host, true
	}
	t.slots[to] = fromEntry
	t.slots[from] = nil
	if int(to) >= t.next {
		t.next = int(to) + 1
	}
	return closeHost, hadCloseHost, true
}

// SetFiletype updates the cached filetype for an existing descriptor,
// e.g. after path_open resolves what kind of node it opened.
func (t *FDTable) SetFiletype(fd uint32, filetype uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fd < MaxFDs && t.slots[fd] != nil {
		t.slots[fd].filetype = filetype
	}
}
