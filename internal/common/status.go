package common

// invitation statuses
const (
	InvitePending      = "pending"
	InviteBidSubmitted = "bid_submitted"
	InviteExpired      = "expired"
	InviteWithdrawn    = "withdrawn"
)

// bid statuses
const (
	BidSubmitted = "submitted"
)

const (
	DefaultCurrency = "GBP"

	MinEtaDays     = 1
	MaxEtaDays     = 365
	MaxNotesLength = 2000

	// price amounts are rejected outside this decimal exponent window
	// before any arithmetic touches them
	MinPriceExponent = -12
	MaxPriceExponent = 10
)

// PriceExponentInRange reports whether a decimal exponent is small enough
// to rescale cheaply.
func PriceExponentInRange(exp int32) bool {
	return exp >= MinPriceExponent && exp <= MaxPriceExponent
}

func ValidInviteStatus(s string) bool {
	switch s {
	case InvitePending, InviteBidSubmitted, InviteExpired, InviteWithdrawn:
		return true
	default:
		return false
	}
}
