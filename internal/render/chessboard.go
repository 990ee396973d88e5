package render

import (
	nchess "github.com/corentings/chess/v2"
	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
)

var nchessKinds = [...]nchess.PieceType{
	fogchess.NoKind: nchess.NoPieceType,
	fogchess.Pawn:   nchess.Pawn,
	fogchess.Knight: nchess.Knight,
	fogchess.Bishop: nchess.Bishop,
	fogchess.Rook:   nchess.Rook,
	fogchess.Queen:  nchess.Queen,
	fogchess.King:   nchess.King,
}

// SquareOf converts a board position to a chess square (row 0 is rank 8).
func SquareOf(pos fogchess.Position) nchess.Square {
	return nchess.NewSquare(nchess.File(pos.Col), nchess.Rank(fogchess.Size-1-pos.Row))
}

func toChessPiece(p fogchess.Piece) nchess.Piece {
	if p.IsEmpty() {
		return nchess.NoPiece
	}
	c := nchess.White
	if p.Color == fogchess.Black {
		c = nchess.Black
	}
	return nchess.NewPiece(nchessKinds[p.Kind], c)
}

// ToChessBoard converts the visible part of a view into a chess board. Fog cells are left empty.
func ToChessBoard(v fogchess.View) *nchess.Board {
	m := make(map[nchess.Square]nchess.Piece, 32)
	for r := 0; r < fogchess.Size; r++ {
		for c := 0; c < fogchess.Size; c++ {
			pos := fogchess.Position{Row: r, Col: c}
			cell := v.At(pos)
			if cell.Fog || cell.Piece.IsEmpty() {
				continue
			}
			m[SquareOf(pos)] = toChessPiece(cell.Piece)
		}
	}
	return nchess.NewBoard(m)
}

// Placement returns the FEN piece-placement field of what the view shows.
func Placement(v fogchess.View) string {
	return ToChessBoard(v).String()
}
