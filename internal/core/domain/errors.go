package domain

import "errors"

var (
	// ErrSwapMissingParties ...
	ErrSwapMissingParties = errors.New("initiator and participant must not be empty")
	// ErrSwapSameParty ...
	ErrSwapSameParty = errors.New("initiator and participant must be distinct")
	// ErrSwapInvalidLegCount ...
	ErrSwapInvalidLegCount = errors.New("swap must have one or two legs")
	// ErrSwapInvalidTimeLock ...
	ErrSwapInvalidTimeLock = errors.New("time lock duration must be strictly positive")
	// ErrSwapLegOwnerMismatch is thrown when the legs of a swap are not owned
	// by its parties, the initiator's one first.
	ErrSwapLegOwnerMismatch = errors.New("swap legs must be owned by the swap parties in order")
	// ErrInvalidCommitment ...
	ErrInvalidCommitment = errors.New("commitment must be a non-zero hex encoded digest of 32 bytes")

	// ErrLegMissingOwner ...
	ErrLegMissingOwner = errors.New("leg owner must not be empty")
	// ErrLegMissingAsset ...
	ErrLegMissingAsset = errors.New("leg asset must not be empty")
	// ErrLegInvalidAmount ...
	ErrLegInvalidAmount = errors.New("leg amount must be strictly positive")
	// ErrLegInvalidYield ...
	ErrLegInvalidYield = errors.New("leg accrued yield must not be negative")

	// ErrSwapNotFound is thrown when no swap exists for a requested id.
	ErrSwapNotFound = errors.New("swap not found")
	// ErrSwapAlreadyExists is thrown when creating a swap whose id is already
	// occupied by a previous record, terminal or not.
	ErrSwapAlreadyExists = errors.New("swap with the same id already exists")
	// ErrSwapAlreadyFinalized is thrown when attempting to complete or refund
	// a swap that already reached a terminal status.
	ErrSwapAlreadyFinalized = errors.New("swap is already finalized")
	// ErrInvalidSecret is thrown when the revealed secret is not the preimage
	// of the swap commitment.
	ErrInvalidSecret = errors.New("secret does not match the swap commitment")
	// ErrTimeLockNotExpired is thrown when requesting a refund before the time
	// lock of the swap is expired.
	ErrTimeLockNotExpired = errors.New("time lock is not expired yet")
	// ErrUnauthorized is thrown when the caller of an operation is not the
	// party entitled to it, or cannot present the required credential.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")
	// ErrTransferFailure is thrown when the custody provider fails to move
	// funds. The surrounding operation must leave no partial effect behind.
	ErrTransferFailure = errors.New("custody transfer failed")

	// ErrCustodyEntryNotFound ...
	ErrCustodyEntryNotFound = errors.New("custody entry not found")
	// ErrCustodyEntryAlreadyExists ...
	ErrCustodyEntryAlreadyExists = errors.New("custody entry already exists")
	// ErrCustodyEntryNotEscrowed is thrown when settling an entry that does
	// not hold value anymore.
	ErrCustodyEntryNotEscrowed = errors.New("custody entry is not in escrowed status")
)
