// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/drunsh/drun/cmd/drun"

func main() {
	cmd.Execute()
}
