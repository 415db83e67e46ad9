// SPDX-License-Identifier: MPL-2.0

// Command declwire resolves declarative service registrations.
package main

import cmd "github.com/declwire/declwire/cmd/declwire"

func main() {
	cmd.Execute()
}
