// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package outreach

import (
	"errors"
	"io/fs"

	"github.com/subosito/gotenv"
)

// LoadEnvFile loads environment variables defined in an .env formatted file.
// A missing file is not an error; variables already set in the environment
// take precedence over the file.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
