package panel

import (
	"fmt"
	"strings"
)

type Folder struct {
	Title    string
	Closed   bool
	Controls []Control
}

func (f *Folder) Add(c Control) Control {
	f.Controls = append(f.Controls, c)
	return c
}

func (f *Folder) Open()  { f.Closed = false }
func (f *Folder) Close() { f.Closed = true }

// Panel is an ordered set of folders with a single keyboard focus. The
// focus moves over folder headers and the controls of open folders.
type Panel struct {
	Folders []*Folder
	focus   int
	Hidden  bool
}

func New() *Panel {
	return &Panel{}
}

func (p *Panel) AddFolder(title string) *Folder {
	f := &Folder{Title: title}
	p.Folders = append(p.Folders, f)
	return f
}

// item is a focusable row: a folder header (control == nil) or a control.
type item struct {
	folder  *Folder
	control Control
}

func (p *Panel) items() []item {
	var out []item
	for _, f := range p.Folders {
		out = append(out, item{folder: f})
		if f.Closed {
			continue
		}
		for _, c := range f.Controls {
			out = append(out, item{folder: f, control: c})
		}
	}
	return out
}

func (p *Panel) clampFocus(n int) {
	if n == 0 {
		p.focus = 0
		return
	}
	p.focus = ((p.focus % n) + n) % n
}

// Next moves the focus forward, wrapping at the end.
func (p *Panel) Next() {
	p.focus++
	p.clampFocus(len(p.items()))
}

// Prev moves the focus backward, wrapping at the start.
func (p *Panel) Prev() {
	p.focus--
	p.clampFocus(len(p.items()))
}

// Focused returns the focused control, or nil when a folder header has focus.
func (p *Panel) Focused() Control {
	items := p.items()
	p.clampFocus(len(items))
	if len(items) == 0 {
		return nil
	}
	return items[p.focus].control
}

// Activate toggles the focused folder open/closed, or flips a focused toggle.
func (p *Panel) Activate() {
	items := p.items()
	p.clampFocus(len(items))
	if len(items) == 0 {
		return
	}
	it := items[p.focus]
	switch c := it.control.(type) {
	case nil:
		it.folder.Closed = !it.folder.Closed
	case *Toggle:
		c.Nudge(1)
	}
}

// Nudge adjusts the focused control by n steps.
func (p *Panel) Nudge(n int) {
	if c := p.Focused(); c != nil {
		c.Nudge(n)
	}
}

// Adjust moves the focused control along its second axis, when it has one.
func (p *Panel) Adjust(n int) {
	if c, ok := p.Focused().(Adjuster); ok {
		c.Adjust(n)
	}
}

// Find returns the control with the given folder title and label.
func (p *Panel) Find(folder, label string) Control {
	for _, f := range p.Folders {
		if f.Title != folder {
			continue
		}
		for _, c := range f.Controls {
			if c.Label() == label {
				return c
			}
		}
	}
	return nil
}

// Line is one rendered row of the panel.
type Line struct {
	Text  string
	Focus bool
}

// Lines renders the panel as text rows.
func (p *Panel) Lines() []Line {
	if p.Hidden {
		return nil
	}
	items := p.items()
	p.clampFocus(len(items))

	out := make([]Line, 0, len(items))
	for i, it := range items {
		var text string
		if it.control == nil {
			marker := "v"
			if it.folder.Closed {
				marker = ">"
			}
			text = fmt.Sprintf("%s %s", marker, it.folder.Title)
		} else {
			text = fmt.Sprintf("    %-12s %s", it.control.Label(), it.control.Value())
		}
		out = append(out, Line{Text: strings.TrimRight(text, " "), Focus: i == p.focus})
	}
	return out
}
