package sale

// Phase is the sale state derived from the schedule at a given instant.
type Phase uint8

const (
	// Before: no window has opened yet.
	Before Phase = iota

	// Auction: the Dutch auction window is open.
	Auction

	// Allowlist: the presale window for proven allowlist members is open.
	Allowlist

	// Public: the public sale window is open and the public sale is enabled.
	Public

	// Closed: both the allowlist and public windows have ended. The
	// post-sale entrypoints (remaining-supply distribution, rebates) are
	// gated on this phase.
	Closed
)

func (p Phase) String() string {
	switch p {
	case Before:
		return "before"
	case Auction:
		return "auction"
	case Allowlist:
		return "allowlist"
	case Public:
		return "public"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// InAuctionWindow reports whether now falls inside [AuctionStart, AuctionEnd).
// A zero start means the window has not been scheduled and is never open.
func (s ScheduleRules) InAuctionWindow(now Timestamp) bool {
	return s.AuctionStart != 0 && now >= s.AuctionStart && now < s.AuctionEnd
}

// InAllowlistWindow reports whether now falls inside the allowlist window.
func (s ScheduleRules) InAllowlistWindow(now Timestamp) bool {
	return s.AllowlistStart != 0 && now >= s.AllowlistStart && now < s.AllowlistEnd
}

// InPublicWindow reports whether the public sale is enabled and now falls
// inside its window. The HasPublicSale switch is independent of the times.
func (s ScheduleRules) InPublicWindow(now Timestamp) bool {
	return s.HasPublicSale && s.PublicStart != 0 && now >= s.PublicStart && now < s.PublicEnd
}

// IsClosed reports whether every sale window has ended. A schedule that
// was never set is not closed, it just has not started.
func (s ScheduleRules) IsClosed(now Timestamp) bool {
	if s.AllowlistEnd == 0 && s.PublicEnd == 0 {
		return false
	}
	return now >= s.AllowlistEnd && now >= s.PublicEnd
}

// CurrentPhase resolves the phase at now. Windows may overlap in a
// misconfigured schedule; resolution order is closed, auction, allowlist,
// public, before — purchase paths never rely on this ordering since each
// checks only its own window.
func (s ScheduleRules) CurrentPhase(now Timestamp) Phase {
	switch {
	case s.IsClosed(now):
		return Closed
	case s.InAuctionWindow(now):
		return Auction
	case s.InAllowlistWindow(now):
		return Allowlist
	case s.InPublicWindow(now):
		return Public
	default:
		return Before
	}
}
