package game

import "fmt"

// Default battlefield dimensions.
const (
	DefaultRows = 15
	DefaultCols = 15
)

// Cell addresses one grid position.
type Cell struct {
	Row int
	Col int
}

// Manhattan returns the tile distance between two cells, the metric used for
// attack range.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Grid is the static battlefield: fixed dimensions and one terrain tag per
// cell. It is built once per battle and shared by reference across every
// state copy; no mutation after construction.
type Grid struct {
	rows    int
	cols    int
	terrain [][]Terrain
}

// NewGrid builds a grid from a row-major terrain layout. Every row must have
// the same length.
func NewGrid(terrain [][]Terrain) (*Grid, error) {
	if len(terrain) == 0 || len(terrain[0]) == 0 {
		return nil, fmt.Errorf("grid layout is empty")
	}
	cols := len(terrain[0])
	for i, row := range terrain {
		if len(row) != cols {
			return nil, fmt.Errorf("grid row %d has %d cells, want %d", i, len(row), cols)
		}
	}
	return &Grid{rows: len(terrain), cols: cols, terrain: terrain}, nil
}

// NewPlainsGrid builds a uniform plains grid, the default battlefield when no
// terrain layout is configured.
func NewPlainsGrid(rows, cols int) *Grid {
	terrain := make([][]Terrain, rows)
	for r := range terrain {
		terrain[r] = make([]Terrain, cols)
	}
	g, err := NewGrid(terrain)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseLayout builds a grid from one string per row, one rune per cell:
// '.' plains, 'h' hills, 'w' water, 'm' mountain.
func ParseLayout(rows []string) (*Grid, error) {
	terrain := make([][]Terrain, len(rows))
	for r, row := range rows {
		terrain[r] = make([]Terrain, len(row))
		for c, ch := range row {
			switch ch {
			case '.':
				terrain[r][c] = Plains
			case 'h':
				terrain[r][c] = Hills
			case 'w':
				terrain[r][c] = Water
			case 'm':
				terrain[r][c] = Mountain
			default:
				return nil, fmt.Errorf("unknown terrain symbol %q at row %d col %d", ch, r, c)
			}
		}
	}
	return NewGrid(terrain)
}

func (g *Grid) Rows() int { return g.rows }

func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether the cell lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// TerrainAt returns the terrain tag of an in-bounds cell.
func (g *Grid) TerrainAt(c Cell) Terrain {
	return g.terrain[c.Row][c.Col]
}

// Neighbors returns the up to 4 cardinally adjacent in-bounds cells, in
// north-south-west-east order.
func (g *Grid) Neighbors(c Cell) []Cell {
	candidates := [4]Cell{
		{c.Row - 1, c.Col},
		{c.Row + 1, c.Col},
		{c.Row, c.Col - 1},
		{c.Row, c.Col + 1},
	}
	cells := make([]Cell, 0, 4)
	for _, n := range candidates {
		if g.InBounds(n) {
			cells = append(cells, n)
		}
	}
	return cells
}
