// Package textutil holds the small text helpers shared by the catalog, the
// resolver and the CLI.
//
// NormalizeName puts entry names and publisher names into Unicode NFC so a
// name read from a macOS volume (NFD) matches the same name typed by a user.
// SanitizeToken derives filesystem-safe tokens for lock file names.
package textutil
