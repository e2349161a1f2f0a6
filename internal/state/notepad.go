package state

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultFolderID is the folder that always exists and cannot be deleted
	DefaultFolderID = "default"

	defaultFolderName = "나의 메모"
	welcomeNoteID     = "welcome-note"
	newNotePreview    = "새로운 메모"
	previewMaxRunes   = 100
)

var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrNoteNotFound   = errors.New("note not found")
	ErrDefaultFolder  = errors.New("default folder cannot be deleted")
)

var (
	nowFunc = time.Now
	newID   = uuid.NewString
)

// Folder groups notes
type Folder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Note is a single memo. Content is opaque HTML.
type Note struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folderId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteUpdate carries the fields to change; nil fields are left alone
type NoteUpdate struct {
	Title   *string
	Content *string
	Preview *string
}

// Notepad is a snapshot of folders and notes. Every operation returns a new
// snapshot and leaves the receiver untouched.
type Notepad struct {
	Folders           []Folder `json:"folders"`
	Notes             []Note   `json:"notes"`
	ActiveFolderID    string   `json:"activeFolderId,omitempty"`
	ActiveNoteID      string   `json:"activeNoteId,omitempty"`
	ExpandedFolderIDs []string `json:"expandedFolderIds"`
}

// NewNotepad returns the initial notepad with the default folder and a
// welcome note
func NewNotepad() Notepad {
	now := nowFunc()
	return Notepad{
		Folders: []Folder{{ID: DefaultFolderID, Name: defaultFolderName, CreatedAt: now}},
		Notes: []Note{{
			ID:        welcomeNoteID,
			FolderID:  DefaultFolderID,
			Title:     "사용자 가이드",
			Content:   "<p>아카데미 도구의 메모장에 오신 것을 환영합니다!</p><p>자유롭게 메모를 작성하고 폴더로 관리해보세요.</p>",
			Preview:   "아카데미 도구의 메모장에 오신 것을 환영합니다!",
			CreatedAt: now,
			UpdatedAt: now,
		}},
		ActiveFolderID:    DefaultFolderID,
		ExpandedFolderIDs: []string{DefaultFolderID},
	}
}

// AddFolder appends a new expanded folder
func (n Notepad) AddFolder(name string) (Notepad, Folder) {
	next := n.clone()
	folder := Folder{ID: newID(), Name: name, CreatedAt: nowFunc()}

	if len(next.Folders) == 0 {
		next.ActiveFolderID = folder.ID
	}
	next.Folders = append(next.Folders, folder)
	next.ExpandedFolderIDs = append(next.ExpandedFolderIDs, folder.ID)

	return next, folder
}

// DeleteFolder removes a folder together with its notes
func (n Notepad) DeleteFolder(id string) (Notepad, error) {
	if id == DefaultFolderID {
		return n, ErrDefaultFolder
	}
	if n.folderIndex(id) < 0 {
		return n, ErrFolderNotFound
	}

	next := n.clone()
	next.Folders = filter(next.Folders, func(f Folder) bool { return f.ID != id })
	next.ExpandedFolderIDs = filter(next.ExpandedFolderIDs, func(fid string) bool { return fid != id })

	next.Notes = filter(next.Notes, func(note Note) bool {
		if note.FolderID == id && note.ID == next.ActiveNoteID {
			next.ActiveNoteID = ""
		}
		return note.FolderID != id
	})

	if next.ActiveFolderID == id {
		next.ActiveFolderID = DefaultFolderID
	}
	return next, nil
}

// RenameFolder changes a folder's name
func (n Notepad) RenameFolder(id, name string) (Notepad, error) {
	idx := n.folderIndex(id)
	if idx < 0 {
		return n, ErrFolderNotFound
	}

	next := n.clone()
	next.Folders[idx].Name = name
	return next, nil
}

// ToggleFolder expands or collapses a folder
func (n Notepad) ToggleFolder(id string) (Notepad, error) {
	if n.folderIndex(id) < 0 {
		return n, ErrFolderNotFound
	}

	next := n.clone()
	expanded := filter(next.ExpandedFolderIDs, func(fid string) bool { return fid != id })
	if len(expanded) == len(next.ExpandedFolderIDs) {
		expanded = append(expanded, id)
	}
	next.ExpandedFolderIDs = expanded
	return next, nil
}

// SetActiveFolder selects a folder; an empty id clears the selection
func (n Notepad) SetActiveFolder(id string) (Notepad, error) {
	if id != "" && n.folderIndex(id) < 0 {
		return n, ErrFolderNotFound
	}

	next := n.clone()
	next.ActiveFolderID = id
	return next, nil
}

// AddNote prepends an empty note to folderID and makes it active
func (n Notepad) AddNote(folderID string) (Notepad, Note, error) {
	if n.folderIndex(folderID) < 0 {
		return n, Note{}, ErrFolderNotFound
	}

	now := nowFunc()
	note := Note{
		ID:        newID(),
		FolderID:  folderID,
		Preview:   newNotePreview,
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := n.clone()
	next.Notes = append([]Note{note}, next.Notes...)
	next.ActiveNoteID = note.ID
	return next, note, nil
}

// UpdateNote applies upd and bumps UpdatedAt. When the content changes and
// no preview is given, the preview is derived from the content text.
func (n Notepad) UpdateNote(id string, upd NoteUpdate) (Notepad, error) {
	idx := n.noteIndex(id)
	if idx < 0 {
		return n, ErrNoteNotFound
	}

	next := n.clone()
	note := &next.Notes[idx]

	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
		note.Preview = PreviewOf(note.Content)
	}
	if upd.Preview != nil {
		note.Preview = *upd.Preview
	}
	note.UpdatedAt = nowFunc()

	return next, nil
}

// DeleteNote removes a note
func (n Notepad) DeleteNote(id string) (Notepad, error) {
	if n.noteIndex(id) < 0 {
		return n, ErrNoteNotFound
	}

	next := n.clone()
	next.Notes = filter(next.Notes, func(note Note) bool { return note.ID != id })
	if next.ActiveNoteID == id {
		next.ActiveNoteID = ""
	}
	return next, nil
}

// SetActiveNote selects a note; an empty id clears the selection
func (n Notepad) SetActiveNote(id string) (Notepad, error) {
	if id != "" && n.noteIndex(id) < 0 {
		return n, ErrNoteNotFound
	}

	next := n.clone()
	next.ActiveNoteID = id
	return next, nil
}

// MoveFolder moves folder fromID to the position currently held by toID
func (n Notepad) MoveFolder(fromID, toID string) (Notepad, error) {
	from, to := n.folderIndex(fromID), n.folderIndex(toID)
	if from < 0 || to < 0 {
		return n, ErrFolderNotFound
	}

	next := n.clone()
	next.Folders = move(next.Folders, from, to)
	return next, nil
}

// MoveNote moves note fromID to the position currently held by toID
func (n Notepad) MoveNote(fromID, toID string) (Notepad, error) {
	from, to := n.noteIndex(fromID), n.noteIndex(toID)
	if from < 0 || to < 0 {
		return n, ErrNoteNotFound
	}

	next := n.clone()
	next.Notes = move(next.Notes, from, to)
	return next, nil
}

// FolderNotes returns the notes of a folder in display order
func (n Notepad) FolderNotes(folderID string) []Note {
	return filter(n.Notes, func(note Note) bool { return note.FolderID == folderID })
}

// Folder returns the folder with the given id
func (n Notepad) Folder(id string) (Folder, error) {
	idx := n.folderIndex(id)
	if idx < 0 {
		return Folder{}, ErrFolderNotFound
	}
	return n.Folders[idx], nil
}

// Note returns the note with the given id
func (n Notepad) Note(id string) (Note, error) {
	idx := n.noteIndex(id)
	if idx < 0 {
		return Note{}, ErrNoteNotFound
	}
	return n.Notes[idx], nil
}

// IsExpanded reports whether a folder is expanded
func (n Notepad) IsExpanded(id string) bool {
	for _, fid := range n.ExpandedFolderIDs {
		if fid == id {
			return true
		}
	}
	return false
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PreviewOf extracts the first non-empty text line of HTML content
func PreviewOf(content string) string {
	text := tagPattern.ReplaceAllString(strings.ReplaceAll(content, "</p>", "\n"), "")
	text = html.UnescapeString(text)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > previewMaxRunes {
			line = string(r[:previewMaxRunes])
		}
		return line
	}
	return newNotePreview
}

func (n Notepad) folderIndex(id string) int {
	for i, f := range n.Folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (n Notepad) noteIndex(id string) int {
	for i, note := range n.Notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}

func (n Notepad) clone() Notepad {
	next := n
	next.Folders = append([]Folder(nil), n.Folders...)
	next.Notes = append([]Note(nil), n.Notes...)
	next.ExpandedFolderIDs = append([]string(nil), n.ExpandedFolderIDs...)
	return next
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// move relocates items[from] to index to, shifting the elements in between
func move[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}

	item := items[from]
	out := append(items[:from:from], items[from+1:]...)
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out
}
