package audio

import (
	"context"
	"encoding/json"
	"fmt"
)

type Publisher interface {
	Publish(eventType, data string) error
}

// Cue asks connected browsers to play the alert tone served at URL.
type Cue struct {
	pub Publisher
	url string
}

func NewCue(pub Publisher, url string) *Cue {
	return &Cue{pub: pub, url: url}
}

func (c *Cue) Play(ctx context.Context) error {
	const op = "audio.Cue.Play"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.Marshal(map[string]string{"url": c.url})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.pub.Publish("cue", string(data)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
