// Package server exposes a Store over HTTP so that non-Go processes (template
// renderers, edge workers, deploy checks) can resolve fingerprinted asset paths.
//
// Routes:
//
//	GET  /healthz                 liveness
//	GET  /lookup/{name}?variant=  {"name": ..., "path": ...} or 404 with diagnostics
//	GET  /packs/{name}?variant=   302 to the resolved (asset-host prefixed) path
//	GET  /manifest?variant=       the loaded manifest, pretty-printed
//	POST /refresh?variant=        reload the manifest for a variant set
//	GET  /metrics                 Prometheus exposition
//	GET  /_packs/events           compile events over WebSocket (when enabled)
package server
