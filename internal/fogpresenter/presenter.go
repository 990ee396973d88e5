package fogpresenter

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/park285/Fog-Chess-KakaoTalk-bot/pkg/fogdto"
)

// Sender is the outbound chat transport (irisfast.Egress satisfies it).
type Sender interface {
	SendText(ctx context.Context, room, message string) error
	SendImage(ctx context.Context, room, imageBase64 string) error
}

// Presenter delivers text and board images without coupling to the command layer.
type Presenter struct {
	out Sender
}

func NewPresenter(out Sender) *Presenter {
	return &Presenter{out: out}
}

// Text sends a plain message; blank text is skipped.
func (p *Presenter) Text(ctx context.Context, room, message string) error {
	if p == nil || p.out == nil || strings.TrimSpace(message) == "" {
		return nil
	}
	return p.out.SendText(ctx, room, message)
}

// Board sends the message first, then the board PNG as base64.
func (p *Presenter) Board(ctx context.Context, room, message string, view *fogdto.BoardView) error {
	if p == nil || p.out == nil {
		return nil
	}
	if err := p.Text(ctx, room, message); err != nil {
		return err
	}
	if view == nil || len(view.BoardImage) == 0 {
		return nil
	}
	return p.out.SendImage(ctx, room, base64.StdEncoding.EncodeToString(view.BoardImage))
}
