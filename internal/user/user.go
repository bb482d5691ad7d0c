// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package user tracks the signed-in user for the session.
//
// There is no real authentication backend yet; Login returns a fixed
// development profile. The Manager exists so the UI has a single place to
// ask "who is signed in" and so a real identity provider can slot in later
// without touching callers.
package user

import "sync"

// User describes a signed-in user.
type User struct {
	Name      string
	Email     string
	AvatarURL string
}

// Manager holds the current session identity. Safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	current *User
}

// NewManager creates a Manager with no user signed in.
func NewManager() *Manager {
	return &Manager{}
}

// Login signs in and returns the user profile.
// TODO: wire a real OAuth flow once the backend exists.
func (m *Manager) Login() *User {
	u := &User{
		Name:      "Atrixxu dev",
		Email:     "atrixxu.dev@example.com",
		AvatarURL: "https://picsum.photos/seed/aura/100/100",
	}

	m.mu.Lock()
	m.current = u
	m.mu.Unlock()
	return u
}

// Logout clears the session identity.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the signed-in user, or nil when signed out.
func (m *Manager) Current() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignedIn reports whether a user is signed in.
func (m *Manager) SignedIn() bool {
	return m.Current() != nil
}
