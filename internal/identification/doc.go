// Package identification resolves a directory entry name into the metadata
// fields used for renaming.
//
// The Identifier chains the Bangumi search, subject, and persons lookups, then
// hands the results to Resolve. Resolve is pure: it copies the subject names
// and walks ordered priority tables for the author and publisher, optionally
// preferring publishers from a user-supplied whitelist. Keep tie-break policy
// in the tables rather than in conditionals so it can be audited and tested in
// isolation.
package identification
