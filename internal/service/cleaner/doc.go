// Package cleaner removes the artifact directory produced by pack.
package cleaner
