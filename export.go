package main

import "sort"

// ExportRecord is one element of a grid-layout file. The first record of
// a file is a reference record echoing the grid dimensions; the rest
// describe occupied cells with zero width/height.
type ExportRecord struct {
	Name      string    `json:"name"`
	Position  Coord     `json:"position"`
	Text      string    `json:"text"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Direction Direction `json:"direction"`
}

// ExportRecords serializes the grid to the grid-layout schema: a leading
// reference record, then one record per occupied cell in row-major order
// (top-left to bottom-right). Cells left out of range by a shrink are
// exported too.
func ExportRecords(grid *GridModel) []ExportRecord {
	records := make([]ExportRecord, 0, len(grid.Cells)+1)
	records = append(records, ExportRecord{
		Name:      "original",
		Position:  Coord{X: 0, Y: 0},
		Text:      "original",
		Width:     grid.Width,
		Height:    grid.Height,
		Direction: DirUp,
	})

	coords := make([]Coord, 0, len(grid.Cells))
	for c := range grid.Cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})

	for _, c := range coords {
		content := grid.Cells[c]
		records = append(records, ExportRecord{
			Name:      content.Text,
			Position:  c,
			Text:      content.Text,
			Direction: content.Direction,
		})
	}
	return records
}
