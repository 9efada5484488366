package ordertoken

type Status string

const (
	StatusPending      Status = "pending"
	StatusFulfilled    Status = "fulfilled"
	StatusUnsuccessful Status = "unsuccessful"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusFulfilled, StatusUnsuccessful:
		return true
	default:
		return false
	}
}

// pending → {fulfilled | unsuccessful} のみ。終端状態からの遷移はない
func (s Status) IsTerminal() bool {
	return s == StatusFulfilled || s == StatusUnsuccessful
}

func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

type PriceTier string

const (
	TierRetail   PriceTier = "retail"
	TierReseller PriceTier = "reseller"
)

// Reasons recorded on unsuccessful tokens.
const (
	ReasonExpired        = "expired"
	ReasonPaymentFailed  = "payment_failed"
	ReasonUpstreamReject = "upstream_rejected"
)

// FulfillOutcome is the result of the compare-and-set on `used`.
type FulfillOutcome int

const (
	FulfillNotFound FulfillOutcome = iota
	FulfillAlreadyDone
	FulfillNewly
)

func (o FulfillOutcome) String() string {
	switch o {
	case FulfillNewly:
		return "newly_fulfilled"
	case FulfillAlreadyDone:
		return "already_fulfilled"
	default:
		return "not_found"
	}
}

type FulfillResult struct {
	Outcome  FulfillOutcome
	Snapshot Snapshot
}
