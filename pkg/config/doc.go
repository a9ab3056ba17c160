// Package config loads and validates usage policy files.
//
// A policy file names the limits an application wants to enforce, one
// entry per independent policy:
//
//	defaults:
//	  window: 10s
//	  count: 1
//
//	policies:
//	  greet-user:
//	    window: 10s
//	    count: 1
//	  greet-channel:
//	    window: 30s
//	    count: 5
//
//	sweep:
//	  schedule: "0 3 * * *"
//	  grace: 1h
//
// Windows use Go duration syntax ("250ms", "10s", "1h30m"); bare integers
// are taken as seconds. Policies missing a field inherit it from the
// defaults section. The sweep section is optional and only consulted by
// applications that run a scheduled sweeper.
//
// # Loading
//
//	cfg, err := config.Load("policies.yaml")
//
// Load reads the file, applies defaults and validates the result. All
// validation errors are collected and returned together.
package config
