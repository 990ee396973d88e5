package fogchess

// Pseudo-legal move generation. No king-safety filtering exists in this variant.

type direction struct{ dr, dc int }

var (
	rookDirs   = [4]direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = [4]direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

	knightOffsets = [8]direction{{-2, -1}, {-2, 1}, {2, -1}, {2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}}
	kingOffsets   = [8]direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

type generator func(b *Board, from Position, side Color) SquareSet

// generators is indexed by PieceKind; NoKind has no generator.
var generators = [...]generator{
	Pawn:   genPawnMoves,
	Knight: genKnightMoves,
	Bishop: genBishopMoves,
	Rook:   genRookMoves,
	Queen:  genQueenMoves,
	King:   genKingMoves,
}

// Generate returns every destination a piece of the given kind and color standing on from can
// reach in one ply on b. The board is taken by value and never modified.
func Generate(kind PieceKind, side Color, from Position, b Board) SquareSet {
	if !from.Valid() || kind <= NoKind || int(kind) >= len(generators) {
		return 0
	}
	return generators[kind](&b, from, side)
}

// Moves generates for whatever piece stands on from. An empty origin yields an empty set.
func Moves(b Board, from Position) SquareSet {
	p := b.At(from)
	if p.IsEmpty() {
		return 0
	}
	return Generate(p.Kind, p.Color, from, b)
}

func pawnDir(side Color) int {
	if side == White {
		return -1
	}
	return 1
}

func pawnHomeRow(side Color) int {
	if side == White {
		return 6
	}
	return 1
}

func genPawnMoves(b *Board, from Position, side Color) SquareSet {
	var moves SquareSet
	dir := pawnDir(side)

	one := from.offset(dir, 0)
	if one.Valid() && !b.Occupied(one) {
		moves = moves.Add(one)
		two := from.offset(2*dir, 0)
		if from.Row == pawnHomeRow(side) && two.Valid() && !b.Occupied(two) {
			moves = moves.Add(two)
		}
	}

	// captures only; a pawn never steps diagonally onto an empty square
	for _, dc := range [2]int{-1, 1} {
		to := from.offset(dir, dc)
		if !to.Valid() {
			continue
		}
		if dst := b.At(to); !dst.IsEmpty() && dst.Color != side {
			moves = moves.Add(to)
		}
	}
	return moves
}

func genKnightMoves(b *Board, from Position, side Color) SquareSet {
	return genOffsetMoves(b, from, side, knightOffsets[:])
}

func genKingMoves(b *Board, from Position, side Color) SquareSet {
	return genOffsetMoves(b, from, side, kingOffsets[:])
}

func genOffsetMoves(b *Board, from Position, side Color, offsets []direction) SquareSet {
	var moves SquareSet
	for _, d := range offsets {
		to := from.offset(d.dr, d.dc)
		if !to.Valid() {
			continue
		}
		if dst := b.At(to); dst.IsEmpty() || dst.Color != side {
			moves = moves.Add(to)
		}
	}
	return moves
}

func genBishopMoves(b *Board, from Position, side Color) SquareSet {
	return genRayMoves(b, from, side, bishopDirs[:])
}

func genRookMoves(b *Board, from Position, side Color) SquareSet {
	return genRayMoves(b, from, side, rookDirs[:])
}

// Queen is exactly rook plus bishop from the same square.
func genQueenMoves(b *Board, from Position, side Color) SquareSet {
	return genRookMoves(b, from, side).Union(genBishopMoves(b, from, side))
}

// genRayMoves walks each direction until the edge or the first piece. The first piece is
// included only when it belongs to the opponent; nothing past it is ever reached.
func genRayMoves(b *Board, from Position, side Color, dirs []direction) SquareSet {
	var moves SquareSet
	for _, d := range dirs {
		for to := from.offset(d.dr, d.dc); to.Valid(); to = to.offset(d.dr, d.dc) {
			dst := b.At(to)
			if dst.IsEmpty() {
				moves = moves.Add(to)
				continue
			}
			if dst.Color != side {
				moves = moves.Add(to)
			}
			break
		}
	}
	return moves
}
