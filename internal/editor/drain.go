package editor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Drain runs cmds and every follow-up command they produce, at most
// concurrency at a time, and feeds each result to c.Update on the calling
// goroutine. It returns when no work is left or ctx is done.
func Drain(ctx context.Context, c *Controller, concurrency int, cmds ...tea.Cmd) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		sem     = make(chan struct{}, concurrency)
		results = make(chan tea.Msg)
		pending int
	)

	launch := func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}
		pending++
		go func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			msg := cmd()
			<-sem
			select {
			case results <- msg:
			case <-ctx.Done():
			}
		}()
	}

	for _, cmd := range cmds {
		launch(cmd)
	}

	for pending > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-results:
			pending--
			switch msg := msg.(type) {
			case nil:
			case tea.BatchMsg:
				for _, cmd := range msg {
					launch(cmd)
				}
			default:
				launch(c.Update(msg))
			}
		}
	}
	return nil
}
