package metrics

// RecoveryObserver feeds executor events into the recovery counters.
type RecoveryObserver struct{}

func (RecoveryObserver) Retried(int, error)   { RecoveryRetriesTotal.Inc() }
func (RecoveryObserver) Exhausted(int, error) { RecoveryExhaustedTotal.Inc() }
func (RecoveryObserver) Rejected()            { RecoveryRejectedTotal.Inc() }
func (RecoveryObserver) BreakerOpened()       { BreakerOpenedTotal.Inc() }
