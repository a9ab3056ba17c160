// Package usage provides per-identifier usage tracking with fixed-window
// rate limiting.
//
// # Overview
//
// The package is built around two types:
//
//   - Limit: an immutable policy value ("count uses per window")
//   - Ledger: a concurrent identifier -> usage mapping enforcing one Limit
//
// A Ledger answers one question on demand: how long must this identifier
// wait before its next use is permitted? It never sleeps, never rejects,
// and never schedules anything itself. Callers decide what to do with the
// returned wait duration (reject, queue, or delay).
//
// # Usage
//
//	// one use per user every 10 seconds
//	userLimit, _ := usage.NewLimit(10*time.Second, 1)
//	users := usage.NewLedger[uint64](userLimit)
//
//	if wait, limited := users.Wait(userID); limited {
//	    // tell the caller to come back in `wait`
//	    return
//	}
//	doTheThing()
//	users.Register(userID)
//
// An application creates one Ledger per independent policy: for example a
// per-user ledger and a per-channel ledger for the same command, each with
// its own Limit.
//
// # Algorithm
//
// The ledger implements a refreshing fixed-window counter. Each record
// stores the time of the most recent registration and the number of
// registrations counted since the window started:
//
//  1. First registration for an identifier starts a window with count 1.
//  2. A registration after the window has elapsed resets to count 1 and
//     starts a fresh window at the registration time.
//  3. A registration inside the window increments the count and moves the
//     window start to the registration time, pushing expiry forward.
//
// Step 3 means the window is anchored to the most recent use, not the
// first one: an identifier only becomes unlimited once a full window
// passes without any registration.
//
// # Thread Safety
//
// All Ledger operations are safe for concurrent use without external
// locking. The mapping is sharded and each shard has its own lock, so
// operations on distinct identifiers rarely contend and operations on the
// same identifier are serialized. Wait is a pure read and never mutates
// the ledger.
//
// # Check-Then-Act
//
// Wait and Register are individually atomic but deliberately not atomic
// as a pair. Two callers may both observe "not limited" and both register,
// pushing the count past the limit; both registrations count. The ledger
// enforces limits advisorily, not as a hard admission gate.
package usage
