package app

import (
	"context"
	"sync"

	"github.com/eiannone/keyboard"
)

// startInputListener reads terminal keys until ctx ends and forwards them
// as controls.
func (a *App) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.log.Printf("keyboard input disabled: %v", err)
		return
	}

	var closeOnce sync.Once
	release := func() {
		closeOnce.Do(func() { _ = keyboard.Close() })
	}
	go func() {
		<-ctx.Done()
		release()
	}()

	go func() {
		defer release()
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			if key == keyboard.KeyEsc || key == keyboard.KeyCtrlC {
				a.Send(Control{Kind: ControlQuit})
				return
			}
			if c, ok := keyControl(char); ok {
				a.Send(c)
				if c.Kind == ControlQuit {
					return
				}
			}
		}
	}()
}
