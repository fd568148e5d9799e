// Package history persists a record of completed command runs in SQLite.
package history
