// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/trmxvibs/EnvSanityCheck/cmd/envcheck"

func main() {
	cmd.Execute()
}
