package auction

import "errors"

var (
	ErrNotOwner            = errors.New("caller is not the owner")
	ErrRelayedCall         = errors.New("the caller is another contract")
	ErrSaleNotStarted      = errors.New("sale has not started yet")
	ErrSaleEnded           = errors.New("sale has ended")
	ErrSaleStarted         = errors.New("sale has already started")
	ErrSaleLocked          = errors.New("sale configuration is locked")
	ErrNotAllowlisted      = errors.New("this address is not allow listed for the presale")
	ErrSupplyExceeded      = errors.New("purchase would exceed max supply")
	ErrBadQuantity         = errors.New("invalid quantity")
	ErrInsufficientPayment = errors.New("need to send more ETH")
	ErrTooEarly            = errors.New("too early")
	ErrNothingToMint       = errors.New("nothing to mint")
	ErrAlreadyClaimed      = errors.New("cannot mint more")
	ErrRebateClaimed       = errors.New("rebate already claimed")
	ErrNothingToRebate     = errors.New("nothing to rebate")
)
