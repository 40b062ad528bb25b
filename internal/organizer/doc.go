// Package organizer turns resolved catalog fields into new entry names and
// applies them to a directory.
//
// Format substitutes the {name}, {namecn}, {author} and {press} placeholders
// of a user template and fails closed: a template that references a field the
// catalog could not resolve yields no name at all, so an entry is never renamed
// to a string with empty segments. Renamer drives a batch over the immediate
// entries of one directory, one entry at a time. Each entry is searched,
// resolved, formatted and moved independently; any failure is logged and the
// entry is skipped while the batch continues.
//
// Progress is reported after every entry and completion is signalled exactly
// once through Options.OnDone, including when the batch cannot start.
package organizer
