// Package registry manages a set of named usage ledgers built from a
// policy configuration.
//
// # Overview
//
// Applications that enforce more than one limit usually name their
// policies in a file (see the config package) and look ledgers up by
// name:
//
//	cfg, _ := config.Load("policies.yaml")
//	reg, _ := registry.New[uint64](cfg)
//
//	users, _ := reg.Lookup("greet-user")
//	if wait, limited := users.Wait(userID); limited {
//	    // back off for `wait`
//	}
//
// All ledgers in one registry share a key type; applications with mixed
// key types create one registry per key type.
//
// # Hot Reload
//
// Reload applies a new configuration without losing state: policies whose
// limit is unchanged keep their ledger (and all recorded usage), changed
// policies get a fresh ledger, removed policies are dropped. WatchFile
// ties Reload to a debounced fsnotify watcher so edits to the policy file
// take effect while the process runs. A configuration that fails to load
// or validate leaves the registry untouched.
package registry
