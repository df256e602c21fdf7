// Package packager produces the release artifacts of the extension.
//
// It reads the version from the extension manifest, stages the build output,
// runs the Playnite Toolbox to produce the .pext package, renames the package
// to its canonical name and zips the staged tree next to it.
//
// The workflow assumes it is the only writer of the staging and output
// directories; running two packs at once against the same repository is not
// supported.
package packager
