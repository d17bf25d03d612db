// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

// Templates commands
const (
	listCmd   = "list"
	renderCmd = "render"
)

const (
	message = "Milk collection starts at 6am tomorrow."
	number1 = "0911000001"
	number2 = "+251911000002"
)
