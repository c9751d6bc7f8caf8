// Package shell switches the console between its two screens. Exactly one is visible at a time.
package shell

import (
	"context"
	"sync"
)

type View string

const (
	ViewStudents View = "students"
	ViewTeachers View = "teachers"
)

func (v View) Valid() bool {
	return v == ViewStudents || v == ViewTeachers
}

// Activator is a screen that reloads itself when it becomes visible.
type Activator interface {
	Activate(ctx context.Context)
}

type Shell struct {
	screens map[View]Activator

	mu        sync.Mutex
	current   View
	activated map[View]bool
}

// New returns a shell showing the student screen, not yet activated.
func New(students, teachers Activator) *Shell {
	return &Shell{
		screens: map[View]Activator{
			ViewStudents: students,
			ViewTeachers: teachers,
		},
		current:   ViewStudents,
		activated: make(map[View]bool),
	}
}

func (sh *Shell) Current() View {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.current
}

// Switch makes v the visible screen and activates it, even when it already was visible.
func (sh *Shell) Switch(ctx context.Context, v View) bool {
	if !v.Valid() {
		return false
	}
	sh.mu.Lock()
	sh.current = v
	sh.activated[v] = true
	sh.mu.Unlock()

	sh.screens[v].Activate(ctx)
	return true
}

// Show makes v visible, activating it only when it was hidden or never activated.
// Plain page reloads go through Show so they do not re-fetch everything.
func (sh *Shell) Show(ctx context.Context, v View) bool {
	if !v.Valid() {
		return false
	}
	sh.mu.Lock()
	needed := sh.current != v || !sh.activated[v]
	sh.mu.Unlock()

	if !needed {
		return true
	}
	return sh.Switch(ctx, v)
}
