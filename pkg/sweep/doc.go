// Package sweep runs scheduled stale-record sweeps over usage ledgers.
//
// Ledgers never evict on their own: an identifier that registers once is
// tracked until the ledger is dropped. That is the documented contract,
// and for bounded identifier spaces it is the right one. Long-running
// processes with high-cardinality, low-recurrence identifiers (one-off
// request IDs, drive-by users) can instead opt in to a Sweeper, which
// periodically removes records whose window expired long ago. Removing
// an expired record is invisible to callers; only memory is reclaimed.
//
//	sweeper := sweep.New("0 3 * * *", time.Hour, ledger)
//	if err := sweeper.Start(ctx); err != nil {
//	    return err
//	}
//	defer sweeper.Stop()
//
// Nothing anywhere starts a Sweeper implicitly; applications that never
// construct one get the plain never-evict behavior.
package sweep
