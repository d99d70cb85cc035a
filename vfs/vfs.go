// Package vfs implements the in-memory file namespace: a flat mapping from
// absolute path strings to character content with creation and modification
// timestamps. Descriptors and their positions live with the owning process;
// this package only deals in paths and whole-or-spliced content.
package vfs

import (
	"sort"
	"strings"
	"time"
)

// PreviewLen is how much content a listing row carries.
const PreviewLen = 72

// Entry is one file. Timestamps are wall clock; they exist for display and
// persistence, not for kernel scheduling.
type Entry struct {
	Path      string    `json:"path"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stat is one row of a namespace listing.
type Stat struct {
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Preview string `json:"preview"`
}

// Namespace is the mutable file mapping. It is not safe for concurrent use;
// the kernel owns it and serializes access through the dispatcher.
type Namespace struct {
	files map[string]*Entry
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{files: make(map[string]*Entry)}
}

// CleanPath roots a path: paths without a leading "/" are made absolute,
// surrounding whitespace is dropped. An empty path maps to "/".
func CleanPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Exists reports whether path names a file.
func (n *Namespace) Exists(path string) bool {
	_, ok := n.files[CleanPath(path)]
	return ok
}

// Read returns a file's full content. ok is false when the path is absent.
func (n *Namespace) Read(path string) (string, bool) {
	e, ok := n.files[CleanPath(path)]
	if !ok {
		return "", false
	}
	return e.Content, true
}

// Size returns a file's content length, or 0 when the path is absent.
func (n *Namespace) Size(path string) int {
	e, ok := n.files[CleanPath(path)]
	if !ok {
		return 0
	}
	return len(e.Content)
}

// Write replaces a file's content, creating the file if missing.
func (n *Namespace) Write(path, content string) {
	p := CleanPath(path)
	now := time.Now()
	if e, ok := n.files[p]; ok {
		e.Content = content
		e.UpdatedAt = now
		return
	}
	n.files[p] = &Entry{Path: p, Content: content, CreatedAt: now, UpdatedAt: now}
}

// Truncate empties a file, creating it if missing. Open in "w" mode routes
// here.
func (n *Namespace) Truncate(path string) {
	n.Write(path, "")
}

// Touch creates an empty file if the path is absent. Open in "a" mode
// routes here.
func (n *Namespace) Touch(path string) {
	p := CleanPath(path)
	if _, ok := n.files[p]; ok {
		return
	}
	now := time.Now()
	n.files[p] = &Entry{Path: p, CreatedAt: now, UpdatedAt: now}
}

// Splice writes data into a file at pos, replacing the overlapping range
// [pos, pos+len(data)) and extending the content when the range runs past
// the end. A pos at or past the end appends. The file is created if
// missing. Returns the number of units written.
func (n *Namespace) Splice(path string, pos int, data string) int {
	p := CleanPath(path)
	n.Touch(p)
	e := n.files[p]

	if pos < 0 {
		pos = 0
	}
	content := e.Content
	switch {
	case pos >= len(content):
		content += data
	case pos+len(data) >= len(content):
		content = content[:pos] + data
	default:
		content = content[:pos] + data + content[pos+len(data):]
	}
	e.Content = content
	e.UpdatedAt = time.Now()
	return len(data)
}

// Unlink removes a file. Returns false when the path is absent.
func (n *Namespace) Unlink(path string) bool {
	p := CleanPath(path)
	if _, ok := n.files[p]; !ok {
		return false
	}
	delete(n.files, p)
	return true
}

// List returns a listing sorted by path.
func (n *Namespace) List() []Stat {
	stats := make([]Stat, 0, len(n.files))
	for _, e := range n.files {
		preview := e.Content
		if len(preview) > PreviewLen {
			preview = preview[:PreviewLen]
		}
		stats = append(stats, Stat{Path: e.Path, Size: len(e.Content), Preview: preview})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })
	return stats
}

// Snapshot copies the namespace into the serialization shape
// (path -> entry). Mutating the result does not touch the namespace.
func (n *Namespace) Snapshot() map[string]Entry {
	out := make(map[string]Entry, len(n.files))
	for p, e := range n.files {
		out[p] = *e
	}
	return out
}

// Restore replaces the namespace content from a serialized snapshot.
// Entries keyed under a different path than they carry are re-rooted by
// their key.
func (n *Namespace) Restore(snapshot map[string]Entry) {
	n.files = make(map[string]*Entry, len(snapshot))
	for p, e := range snapshot {
		entry := e
		entry.Path = CleanPath(p)
		n.files[entry.Path] = &entry
	}
}

// Len returns the number of files.
func (n *Namespace) Len() int {
	return len(n.files)
}
