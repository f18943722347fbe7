// SPDX-License-Identifier: MPL-2.0

package main

import cmd "wrapkit-cli/cmd/wrapkit"

func main() {
	cmd.Execute()
}
