// Package migrations holds the schema migration files. Each file
// registers itself from init(), so importing this package (the CLI does)
// makes every migration available to the runner in timestamp order.
package migrations
