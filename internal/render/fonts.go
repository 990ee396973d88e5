package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

var (
	captionOnce sync.Once
	captionFont *opentype.Font
)

// newCaptionFace returns a fresh HUD/coordinate face; opentype faces are not safe for
// concurrent use, so every render gets its own. Falls back to the fixed 7x13 face.
func newCaptionFace() font.Face {
	captionOnce.Do(func() {
		f, err := opentype.Parse(gobold.TTF)
		if err == nil {
			captionFont = f
		}
	})
	if captionFont == nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(captionFont, &opentype.FaceOptions{Size: 16, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}
