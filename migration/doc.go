// Package migration locates SQL migration files and applies them.
//
// Migration files are named `{revision}-{description}.sql`, and are ordered by
// their integer revision. Each SQL statement in a file is one step, so a
// partially applied file can be resumed from a step offset.
package migration
