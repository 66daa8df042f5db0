package reconciliation

// ErrOracleUnavailable indicates a network or auth failure calling the oracle.
// The match selector recovers it locally; it is never batch-fatal.
type ErrOracleUnavailable struct {
	Err error
}

func (e ErrOracleUnavailable) Error() string {
	return "matching oracle unavailable: " + e.Err.Error()
}

func (e ErrOracleUnavailable) Unwrap() error {
	return e.Err
}

// ErrOracleMalformed indicates the oracle responded with something other than
// the expected JSON shape
type ErrOracleMalformed struct {
	Detail string
}

func (e ErrOracleMalformed) Error() string {
	return "matching oracle returned malformed response: " + e.Detail
}

// ErrNoTransactionResolved indicates a candidate could not be mapped back to
// any ledger row by the resolver's fallback strategies
type ErrNoTransactionResolved struct{}

func (e ErrNoTransactionResolved) Error() string {
	return "no transaction resolved for match candidate"
}
