package state

import "errors"

var ErrPageNotFound = errors.New("page not found")

// Page is one page of a source document placed in the working set.
// Rendering is left to the caller; only identity, origin and rotation are kept.
type Page struct {
	ID        string `json:"id"`
	FileID    string `json:"fileId"`
	PageIndex int    `json:"pageIndex"` // 0-based page number in the source file
	Rotation  int    `json:"rotation"`  // 0, 90, 180 or 270
}

// Pages is an ordered page collection with a selection. Like Notepad, every
// operation returns a new snapshot.
type Pages struct {
	Items    []Page   `json:"items"`
	Selected []string `json:"selected,omitempty"`
}

// AddPages appends count pages of fileID, numbered from 0
func (p Pages) AddPages(fileID string, count int) (Pages, []Page) {
	next := p.clone()

	added := make([]Page, 0, count)
	for i := 0; i < count; i++ {
		added = append(added, Page{ID: newID(), FileID: fileID, PageIndex: i})
	}
	next.Items = append(next.Items, added...)

	return next, added
}

// RemovePage drops a page and its selection
func (p Pages) RemovePage(id string) (Pages, error) {
	if p.index(id) < 0 {
		return p, ErrPageNotFound
	}

	next := p.clone()
	next.Items = filter(next.Items, func(page Page) bool { return page.ID != id })
	next.Selected = filter(next.Selected, func(sel string) bool { return sel != id })
	return next, nil
}

// RemoveSelected drops every selected page and clears the selection
func (p Pages) RemoveSelected() Pages {
	next := p.clone()
	next.Items = filter(next.Items, func(page Page) bool { return !p.IsSelected(page.ID) })
	next.Selected = nil
	return next
}

// MovePage moves a page to the position of another
func (p Pages) MovePage(fromID, toID string) (Pages, error) {
	from, to := p.index(fromID), p.index(toID)
	if from < 0 || to < 0 {
		return p, ErrPageNotFound
	}

	next := p.clone()
	next.Items = move(next.Items, from, to)
	return next, nil
}

// ToggleSelection flips the selection of a page. Without multi the rest of
// the selection is dropped first.
func (p Pages) ToggleSelection(id string, multi bool) (Pages, error) {
	if p.index(id) < 0 {
		return p, ErrPageNotFound
	}

	next := p.clone()
	wasSelected := p.IsSelected(id)
	if !multi {
		next.Selected = nil
	}

	next.Selected = filter(next.Selected, func(sel string) bool { return sel != id })
	if !wasSelected {
		next.Selected = append(next.Selected, id)
	}
	return next, nil
}

// SelectAll selects every page
func (p Pages) SelectAll() Pages {
	next := p.clone()
	next.Selected = make([]string, 0, len(p.Items))
	for _, page := range p.Items {
		next.Selected = append(next.Selected, page.ID)
	}
	return next
}

// DeselectAll clears the selection
func (p Pages) DeselectAll() Pages {
	next := p.clone()
	next.Selected = nil
	return next
}

// RotatePage turns a page clockwise by 90 degrees
func (p Pages) RotatePage(id string) (Pages, error) {
	i := p.index(id)
	if i < 0 {
		return p, ErrPageNotFound
	}

	next := p.clone()
	next.Items[i].Rotation = rotate(next.Items[i].Rotation)
	return next, nil
}

// RotateSelected turns every selected page clockwise by 90 degrees
func (p Pages) RotateSelected() Pages {
	next := p.clone()
	for i := range next.Items {
		if p.IsSelected(next.Items[i].ID) {
			next.Items[i].Rotation = rotate(next.Items[i].Rotation)
		}
	}
	return next
}

// Clear removes all pages
func (p Pages) Clear() Pages {
	return Pages{}
}

// Page returns a page by id
func (p Pages) Page(id string) (Page, error) {
	i := p.index(id)
	if i < 0 {
		return Page{}, ErrPageNotFound
	}
	return p.Items[i], nil
}

// IsSelected reports whether a page is selected
func (p Pages) IsSelected(id string) bool {
	for _, sel := range p.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (p Pages) index(id string) int {
	for i, page := range p.Items {
		if page.ID == id {
			return i
		}
	}
	return -1
}

func (p Pages) clone() Pages {
	return Pages{
		Items:    append([]Page(nil), p.Items...),
		Selected: append([]string(nil), p.Selected...),
	}
}

func rotate(rotation int) int {
	return ((rotation+90)%360 + 360) % 360
}
