// Package dev provides the development-time collaborators of an asset store.
//
// This package implements:
//   - Compiler: runs the external asset build when sources changed since the
//     last successful build
//   - Probe: reports whether a live development server is already serving assets
//   - Notifier: pushes compile results to browsers over WebSocket
//
// # Freshness
//
// The compiler hashes every watched file (packs.json, the source directory and
// any additional paths) with BLAKE3 and stores the digest of the last successful
// build under the cache directory. A compile whose digest matches is skipped:
//
//	c := dev.NewCompilerFromConfig(cfg, logger, nil)
//	if err := c.Compile(ctx); err != nil {
//	    errors.PrintError(err)
//	}
//
// # Event Protocol
//
// Browsers connect to /_packs/events. Messages are JSON-encoded:
//
//	{"type": "compiled"}               // A build finished; reload assets
//	{"type": "error", "error": "..."}  // A build failed; show the output
package dev
