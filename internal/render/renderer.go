package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/internal/fogchess"
	"golang.org/x/image/font"
)

// MoveHighlight marks the last move on the board.
type MoveHighlight struct {
	From fogchess.Position
	To   fogchess.Position
}

type RenderOptions struct {
	// Highlight is drawn only if the destination cell is not fogged in the view.
	Highlight *MoveHighlight
	HUDHeader string
	HUDTurn   string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, view fogchess.View, opts RenderOptions) ([]byte, error)
}

type pngBoardRenderer struct{}

func NewBoardRenderer() BoardRenderer {
	return &pngBoardRenderer{}
}

const (
	squareSize       = 72
	boardSize        = squareSize * fogchess.Size
	sideMargin       = 36
	topMargin        = 110
	bottomMargin     = 36
	titleHeight      = 40
	turnHeight       = 32
	gapBetweenPanels = 14
	gapToBoard       = 22
	panelRadius      = 12
	panelPaddingX    = 24
	titleMinWidth    = 320
	turnMinWidth     = 160
	shadowOffsetY    = 6
)

var (
	lightSquare        = color.RGBA{233, 207, 163, 255}
	darkSquare         = color.RGBA{187, 136, 96, 255}
	fogFill            = color.NRGBA{R: 96, G: 101, B: 118, A: 225}
	fogMark            = color.NRGBA{R: 214, G: 218, B: 232, A: 255}
	whiteMoveHighlight = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveArrow     = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	hudPanelColor      = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudTurnPanelColor  = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor     = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary     = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnTextColor   = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	coordinateColor    = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
	backgroundColor    = color.RGBA{18, 20, 30, 255}
)

// boardLayout maps board positions to pixels. Black's view is rotated 180 degrees.
type boardLayout struct {
	origin  image.Point
	flipped bool
}

func (l boardLayout) cellAt(screenRow, screenCol int) fogchess.Position {
	if l.flipped {
		return fogchess.Position{Row: fogchess.Size - 1 - screenRow, Col: fogchess.Size - 1 - screenCol}
	}
	return fogchess.Position{Row: screenRow, Col: screenCol}
}

func (l boardLayout) rect(pos fogchess.Position) image.Rectangle {
	row, col := pos.Row, pos.Col
	if l.flipped {
		row, col = fogchess.Size-1-row, fogchess.Size-1-col
	}
	x := l.origin.X + col*squareSize
	y := l.origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func (l boardLayout) center(pos fogchess.Position) image.Point {
	r := l.rect(pos)
	return image.Pt(r.Min.X+squareSize/2, r.Min.Y+squareSize/2)
}

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, view fogchess.View, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	layout := boardLayout{
		origin:  image.Pt(sideMargin, topMargin),
		flipped: view.Perspective == fogchess.BlackView,
	}
	boardRect := image.Rect(layout.origin.X, layout.origin.Y, layout.origin.X+boardSize, layout.origin.Y+boardSize)

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	face := newCaptionFace()
	drawHUD(img, face, opts, boardRect)
	drawSquares(img, layout)
	if err := drawCells(img, face, view, layout); err != nil {
		return nil, err
	}
	drawHighlight(img, view, opts.Highlight, layout)
	drawCoordinates(img, face, layout)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSquares(img *image.RGBA, l boardLayout) {
	for r := 0; r < fogchess.Size; r++ {
		for c := 0; c < fogchess.Size; c++ {
			pos := fogchess.Position{Row: r, Col: c}
			clr := lightSquare
			if (r+c)%2 == 1 {
				clr = darkSquare
			}
			imagedraw.Draw(img, l.rect(pos), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawCells(img *image.RGBA, face font.Face, view fogchess.View, l boardLayout) error {
	d := &font.Drawer{Dst: img, Face: face}
	for r := 0; r < fogchess.Size; r++ {
		for c := 0; c < fogchess.Size; c++ {
			pos := fogchess.Position{Row: r, Col: c}
			cell := view.At(pos)
			rect := l.rect(pos)
			switch {
			case cell.Fog:
				fillRoundedRect(img, rect.Inset(4), 8, fogFill)
				drawCenteredString(d, rect, "?", fogMark)
			case !cell.Piece.IsEmpty():
				pieceImg, err := renderPieceImage(cell.Piece, squareSize)
				if err != nil {
					return err
				}
				imagedraw.Draw(img, rect, pieceImg, image.Point{}, imagedraw.Over)
			}
		}
	}
	return nil
}

// drawHighlight fills both squares for a white move and draws an arrow for a black one.
func drawHighlight(img *image.RGBA, view fogchess.View, h *MoveHighlight, l boardLayout) {
	if h == nil || !h.From.Valid() || !h.To.Valid() {
		return
	}
	dest := view.At(h.To)
	if dest.Fog || dest.Piece.IsEmpty() {
		return
	}
	if dest.Piece.Color == fogchess.White {
		imagedraw.Draw(img, l.rect(h.From), image.NewUniform(whiteMoveHighlight), image.Point{}, imagedraw.Over)
		imagedraw.Draw(img, l.rect(h.To), image.NewUniform(whiteMoveHighlight), image.Point{}, imagedraw.Over)
		return
	}
	drawArrow(img, l.center(h.From), l.center(h.To), squareSize, blackMoveArrow)
}

func drawHUD(img *image.RGBA, face font.Face, opts RenderOptions, boardRect image.Rectangle) {
	d := &font.Drawer{Dst: img, Face: face}

	title := asciiOnly(strings.TrimSpace(opts.HUDHeader))
	if title == "" {
		title = "Fog Chess"
	}
	turn := asciiOnly(strings.TrimSpace(opts.HUDTurn))

	turnBottom := boardRect.Min.Y - gapToBoard
	turnTop := turnBottom - turnHeight
	titleBottom := turnTop - gapBetweenPanels
	titleTop := titleBottom - titleHeight

	titleWidth := min(max(titleMinWidth, d.MeasureString(title).Round()+panelPaddingX*2), boardRect.Dx())
	titleLeft := boardRect.Min.X + (boardRect.Dx()-titleWidth)/2
	titleRect := image.Rect(titleLeft, titleTop, titleLeft+titleWidth, titleBottom)

	fillRoundedRect(img, titleRect.Add(image.Pt(0, shadowOffsetY)), panelRadius, hudShadowColor)
	fillRoundedRect(img, titleRect, panelRadius, hudPanelColor)
	drawCenteredString(d, titleRect, truncateWithEllipsis(face, title, titleRect.Dx()-panelPaddingX*2), hudTextPrimary)

	if turn == "" {
		return
	}
	turnWidth := min(max(turnMinWidth, d.MeasureString(turn).Round()+panelPaddingX*2), boardRect.Dx()-40)
	turnLeft := boardRect.Min.X + (boardRect.Dx()-turnWidth)/2
	turnRect := image.Rect(turnLeft, turnTop, turnLeft+turnWidth, turnBottom)

	fillRoundedRect(img, turnRect.Add(image.Pt(0, shadowOffsetY)), panelRadius, hudShadowColor)
	fillRoundedRect(img, turnRect, panelRadius, hudTurnPanelColor)
	drawCenteredString(d, turnRect, truncateWithEllipsis(face, turn, turnRect.Dx()-panelPaddingX*2), hudTurnTextColor)
}

// drawCoordinates labels ranks on the left edge and files under the board.
func drawCoordinates(img *image.RGBA, face font.Face, l boardLayout) {
	d := &font.Drawer{Dst: img, Face: face}
	for i := 0; i < fogchess.Size; i++ {
		left := l.cellAt(i, 0)
		rankRect := l.rect(left)
		rankRect.Min.X, rankRect.Max.X = 0, sideMargin
		drawCenteredString(d, rankRect, left.String()[1:], coordinateColor)

		bottom := l.cellAt(fogchess.Size-1, i)
		fileRect := l.rect(bottom)
		fileRect.Min.Y, fileRect.Max.Y = fileRect.Max.Y, fileRect.Max.Y+bottomMargin
		drawCenteredString(d, fileRect, bottom.String()[:1], coordinateColor)
	}
}
