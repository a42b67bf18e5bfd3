package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// Await runs fn while a spinner titled title is shown, and returns fn's
// result. Without a terminal fn runs directly and nothing is drawn, so
// output stays clean in pipes and CI logs.
func Await[T any](ctx context.Context, title string, fn func(context.Context) (T, error)) (T, error) {
	if !IsTTY() {
		return fn(ctx)
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		val, err := fn(ctx)
		done <- result{val: val, err: err}
	}()

	var res result
	spinErr := spinner.New().Title(title).Action(func() {
		res = <-done
	}).Run()
	if spinErr != nil {
		// The spinner failed to draw; fn keeps running and still owns the outcome.
		Debug("spinner unavailable", "err", spinErr)
		res = <-done
	}
	if res.err != nil {
		return res.val, res.err
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", title, err)
	}
	return res.val, nil
}
