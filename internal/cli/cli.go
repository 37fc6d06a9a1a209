// Package cli implements the wallbuilder command-line interface.
//
// Commands cover running the HTTP API (serve), resolving variants from
// encoded lists (resolve), pricing documents (total), share-link handling
// (share), saved-gallery management (galleries) and cart submission (cart).
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so subcommands share one configured logger.
package cli

const appName = "wallbuilder"
