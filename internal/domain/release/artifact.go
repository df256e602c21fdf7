package release

import "strings"

// ArtifactName returns the canonical artifact file name "<base>_v<version><ext>".
// The extension is expected to carry its leading dot (".pext", ".zip").
func ArtifactName(base, version, ext string) string {
	var b strings.Builder

	b.Grow(len(base) + len(version) + len(ext) + len("_v"))
	b.WriteString(base)
	b.WriteString("_v")
	b.WriteString(version)
	b.WriteString(ext)

	return b.String()
}
