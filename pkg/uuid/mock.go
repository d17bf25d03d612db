// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package uuid

import (
	"fmt"
	"sync"

	"github.com/dairylink/outreach"
)

// Prefix represents the prefix used to generate UUID mocks
const Prefix = "123e4567-e89b-12d3-a456-"

var _ outreach.IDProvider = (*uuidProviderMock)(nil)

// MockID returns the n-th ID a fresh mock provider issues.
func MockID(n int) string {
	return fmt.Sprintf("%s%012d", Prefix, n)
}

type uuidProviderMock struct {
	mu      sync.Mutex
	counter int
}

func (up *uuidProviderMock) ID() (string, error) {
	up.mu.Lock()
	defer up.mu.Unlock()

	up.counter++
	return MockID(up.counter), nil
}

// NewMock returns a provider issuing sequential UUID-shaped IDs starting at
// Prefix + "000000000001".
func NewMock() outreach.IDProvider {
	return &uuidProviderMock{}
}
