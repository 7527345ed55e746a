package entity

// Marker is the content of a single board cell.
type Marker string

const (
	PlayerX   Marker = "X"
	PlayerO   Marker = "O"
	EmptyCell Marker = ""
)

const BoardSize = 9

// Board - a 3x3 grid snapshot stored row-major, cells 0..8.
type Board [BoardSize]Marker

// IsValidCell - reports whether cell addresses a square of the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func (that Board) IsEmpty() bool {
	for _, cell := range that {
		if cell != EmptyCell {
			return false
		}
	}

	return true
}

// IsFull - the game will continue until all the squares are full.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Marker) IsValid() bool {
	return that == EmptyCell || that == PlayerX || that == PlayerO
}
