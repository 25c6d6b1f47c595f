// Package session provides graph snapshot persistence for TermFlow.
//
// Snapshots capture the complete flow graph: all nodes and edges plus
// the parser's per-session chaining state, so a restored graph keeps
// linking new commands from where each session left off.
//
// Storage Layout:
//   - One gzip-compressed JSON file per snapshot under the storage dir
//   - An in-memory cache fronts the disk; the directory is scanned
//     once at startup
//
// Restoration Process:
//  1. Load and decode the snapshot file
//  2. Replace the graph store's node/edge set
//  3. Replace the parser's chaining state
//
// Example Usage:
//
//	manager, _ := session.NewManager(store, parser, "/var/lib/termflow")
//	snap, err := manager.Save("before-deploy", "graph prior to deploy run")
//	err = manager.Restore(snap.ID)
package session
