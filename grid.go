package main

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned by grid mutations.
var (
	ErrOutOfBounds           = errors.New("target is outside the grid")
	ErrNotFound              = errors.New("not found")
	ErrCollisionNotConfirmed = errors.New("target cell is occupied")
	ErrInvalidDimensions     = errors.New("grid dimensions must be positive")
)

// Direction is the arrow attached to a cell.
type Direction string

const (
	DirUp    Direction = "Up"
	DirDown  Direction = "Down"
	DirLeft  Direction = "Left"
	DirRight Direction = "Right"
)

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// Coord addresses a single grid cell.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellContent is what an occupied cell holds. Position duplicates the
// cell's map key so that exported records are self-contained.
type CellContent struct {
	Position  Coord     `json:"position"`
	Text      string    `json:"text"`
	Name      string    `json:"name,omitempty"`
	Color     string    `json:"color"`
	Direction Direction `json:"direction"`
}

// GridModel is a sparse mapping from cell coordinate to cell content.
// Occupied cells may lie outside the current dimensions: Resize never
// prunes, so a shrink hides cells and a later grow brings them back.
type GridModel struct {
	Width  int
	Height int
	Cells  map[Coord]CellContent
}

// NewGridModel creates an empty grid.
func NewGridModel(width, height int) (*GridModel, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &GridModel{
		Width:  width,
		Height: height,
		Cells:  make(map[Coord]CellContent),
	}, nil
}

// InBounds reports whether c lies inside the current dimensions.
func (m *GridModel) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < m.Width && c.Y >= 0 && c.Y < m.Height
}

// SetCell inserts or replaces the content at c. Bounds are not checked;
// callers that care validate first.
func (m *GridModel) SetCell(c Coord, content CellContent) {
	content.Position = c
	m.Cells[c] = content
}

// GetCell returns the content at c, if any.
func (m *GridModel) GetCell(c Coord) (CellContent, bool) {
	content, ok := m.Cells[c]
	return content, ok
}

// MoveCell relocates the content at from to to. The target must be in
// bounds, and moving onto an occupied cell requires overwrite; the grid
// never silently replaces content on a move.
func (m *GridModel) MoveCell(from, to Coord, overwrite bool) error {
	content, ok := m.Cells[from]
	if !ok {
		return fmt.Errorf("cell (%d,%d): %w", from.X, from.Y, ErrNotFound)
	}
	if !m.InBounds(to) {
		return fmt.Errorf("cell (%d,%d): %w", to.X, to.Y, ErrOutOfBounds)
	}
	if _, occupied := m.Cells[to]; occupied && to != from && !overwrite {
		return fmt.Errorf("cell (%d,%d): %w", to.X, to.Y, ErrCollisionNotConfirmed)
	}
	delete(m.Cells, from)
	content.Position = to
	m.Cells[to] = content
	return nil
}

// Resize updates the grid dimensions. Cells that fall out of range are
// kept, not deleted.
func (m *GridModel) Resize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	m.Width = width
	m.Height = height
	return nil
}

// gridJSON is the wire form of a GridModel: cells keyed by "x,y".
type gridJSON struct {
	Width  int                    `json:"width"`
	Height int                    `json:"height"`
	Cells  map[string]CellContent `json:"cells"`
}

// MarshalJSON encodes cells under "x,y" keys.
func (m *GridModel) MarshalJSON() ([]byte, error) {
	out := gridJSON{
		Width:  m.Width,
		Height: m.Height,
		Cells:  make(map[string]CellContent, len(m.Cells)),
	}
	for c, content := range m.Cells {
		out.Cells[fmt.Sprintf("%d,%d", c.X, c.Y)] = content
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the "x,y"-keyed wire form.
func (m *GridModel) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Width = in.Width
	m.Height = in.Height
	m.Cells = make(map[Coord]CellContent, len(in.Cells))
	for key, content := range in.Cells {
		var c Coord
		if _, err := fmt.Sscanf(key, "%d,%d", &c.X, &c.Y); err != nil {
			return fmt.Errorf("cell key %q: %w", key, err)
		}
		content.Position = c
		m.Cells[c] = content
	}
	return nil
}
