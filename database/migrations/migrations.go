// Package migrations holds the relational schema migrations. Each file
// registers itself from init(); importing the package is enough to make
// them visible to `honeyshop migrate`.
package migrations
