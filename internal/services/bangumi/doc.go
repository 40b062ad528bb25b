// Package bangumi provides the minimal Bangumi (bgm.tv) API client used to
// identify comics by name.
//
// It exposes the legacy subject search restricted to the book category, the
// v0 subject detail lookup, and the v0 subject persons listing. The provider
// sometimes answers throttled searches with HTTP 200 and a human-readable
// apology page instead of an error status; the client inspects every body for
// that apology before decoding and reports it as services.ErrRateLimited. The
// match depends on the exact provider wording, so a copy change on their side
// silently disables detection.
//
// Options allow tests to supply custom HTTP clients and request pacing without
// modifying production code.
package bangumi
