package leasing

// Role of the actor attempting a transition, resolved by comparing the actor
// to the field owner and the requester. The engine never resolves identity
// itself; the actor id is always passed in explicitly.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleRequester Role = "requester"
)

// paymentEffect is the gateway side effect tied to a transition. It runs
// before the status is persisted; if it fails the leasing stays untouched.
type paymentEffect int

const (
	effectCapture paymentEffect = iota // move the held funds to the owner
	effectRelease                      // give the hold back to the requester
)

type transitionKey struct {
	from   Status
	role   Role
	target Status
}

type transitionRule struct {
	effect paymentEffect
	// windowGated transitions are refused once the leasing start is within
	// UpdateDayRange days. Backing out (reject, cancel) is never gated.
	windowGated bool
}

// transitionTable enumerates every legal transition. Anything not listed is
// an invalid transition, including no-op updates to the current status.
var transitionTable = map[transitionKey]transitionRule{
	{StatusOpen, RoleOwner, StatusReserved}:      {effect: effectCapture, windowGated: true},
	{StatusOpen, RoleOwner, StatusRejected}:      {effect: effectRelease},
	{StatusOpen, RoleRequester, StatusCancelled}: {effect: effectRelease},
}

// lookupTransition returns the rule for (from, role, target), or false when
// the combination is not allowed.
func lookupTransition(from Status, role Role, target Status) (transitionRule, bool) {
	rule, ok := transitionTable[transitionKey{from: from, role: role, target: target}]
	return rule, ok
}
