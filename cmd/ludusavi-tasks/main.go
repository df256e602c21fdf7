// Command ludusavi-tasks builds, formats, packs and cleans the Ludusavi Restic
// Playnite extension.
package main

import "github.com/oshokin/ludusavi-restic-tasks/cmd/ludusavi-tasks/cmd"

func main() {
	cmd.Execute()
}
