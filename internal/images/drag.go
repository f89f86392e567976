package images

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// performDrag executes a mouse drag from (startX, startY) to (endX, endY)
// as raw CDP events: press, interpolated moves, hold, release. Ant's
// drag-sorting needs the intermediate moves or it never starts a drag.
func performDrag(ctx context.Context, startX, startY, endX, endY int, duration, holdDuration time.Duration) error {
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MousePressed, float64(startX), float64(startY)).
			WithButton(input.Left).
			WithClickCount(1).
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("mouse press failed: %w", err)
	}

	time.Sleep(50 * time.Millisecond)

	steps := 10
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := float64(startX) + float64(endX-startX)*t
		y := float64(startY) + float64(endY-startY)*t

		err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
		}))
		if err != nil {
			return fmt.Errorf("mouse move failed at step %d: %w", i, err)
		}

		time.Sleep(duration / time.Duration(steps))
	}

	time.Sleep(holdDuration)

	err = chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseReleased, float64(endX), float64(endY)).
			WithButton(input.Left).
			WithClickCount(1).
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("mouse release failed: %w", err)
	}

	return nil
}
