// Package navigation holds client navigation effects that run after a page
// has rendered.
package navigation

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// State is the lifecycle of a Redirect.
type State int32

const (
	// Pending means no navigation has happened yet.
	Pending State = iota
	// Redirected means the replace navigation was issued.
	Redirected
)

func (s State) String() string {
	switch s {
	case Redirected:
		return "redirected"
	default:
		return "pending"
	}
}

var (
	// ErrNoNavigator is returned when OnMount has nothing to navigate with.
	ErrNoNavigator = errors.New("navigator is unavailable")
	// ErrNoTarget is returned when the redirect target is blank.
	ErrNoTarget = errors.New("redirect target is required")
)

// Navigator performs a replace navigation to target.
type Navigator interface {
	Replace(target string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string) error

// Replace calls f(target).
func (f NavigatorFunc) Replace(target string) error {
	return f(target)
}

// Redirect renders nothing and replace-navigates to Target once its first
// mount completes. Re-rendering or re-mounting the same instance never
// navigates again.
type Redirect struct {
	target string
	once   sync.Once
	state  atomic.Int32
	err    error
}

// NewRedirect returns a pending redirect to target.
func NewRedirect(target string) *Redirect {
	return &Redirect{target: strings.TrimSpace(target)}
}

// Target returns the destination path.
func (r *Redirect) Target() string {
	if r == nil {
		return ""
	}
	return r.target
}

// Render writes no markup.
func (r *Redirect) Render(context.Context, io.Writer) error {
	return nil
}

// OnMount runs the one-shot navigation effect. Only the first call does any
// work; later calls return the first call's result. A failed navigation leaves
// the redirect Pending.
func (r *Redirect) OnMount(nav Navigator) error {
	if r == nil {
		return ErrNoNavigator
	}
	r.once.Do(func() {
		if nav == nil {
			r.err = ErrNoNavigator
			return
		}
		if r.target == "" {
			r.err = ErrNoTarget
			return
		}
		if err := nav.Replace(r.target); err != nil {
			r.err = err
			return
		}
		r.state.Store(int32(Redirected))
	})
	return r.err
}

// State reports whether navigation has happened.
func (r *Redirect) State() State {
	if r == nil {
		return Pending
	}
	return State(r.state.Load())
}
