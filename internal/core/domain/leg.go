package domain

import "github.com/shopspring/decimal"

// LegKind enumerates the value kinds a swap leg can assume.
type LegKind int

const (
	// LegKindPlainFungible is a bare fungible amount.
	LegKindPlainFungible LegKind = iota
	// LegKindYieldBearingVault is a vault position made of a principal plus
	// the yield accrued on it. The two always travel together.
	LegKindYieldBearingVault
	// LegKindCredentialGated is an amount whose release is bound to the
	// presentation of a matching credential.
	LegKindCredentialGated
)

func (k LegKind) String() string {
	switch k {
	case LegKindPlainFungible:
		return "plain_fungible"
	case LegKindYieldBearingVault:
		return "yield_bearing_vault"
	case LegKindCredentialGated:
		return "credential_gated"
	default:
		return "unknown"
	}
}

// SwapLeg is one party's value locked into a swap: an asset locator and a
// principal amount, optionally topped by an accrued yield for vault
// positions, optionally demanding a credential from the identity the value
// is released to.
type SwapLeg struct {
	Owner              string
	Asset              string
	Amount             decimal.Decimal
	AccruedYield       decimal.Decimal
	RequiredCredential string
}

// Kind returns the value kind of the leg, derived from the optional fields
// that are set. A leg demanding a credential is credential gated even when
// it also accrues yield.
func (l SwapLeg) Kind() LegKind {
	if l.RequiredCredential != "" {
		return LegKindCredentialGated
	}
	if l.AccruedYield.IsPositive() {
		return LegKindYieldBearingVault
	}
	return LegKindPlainFungible
}

// Total returns the full value held by the leg, principal plus accrued
// yield. Escrow and release always move this amount as one unit.
func (l SwapLeg) Total() decimal.Decimal {
	return l.Amount.Add(l.AccruedYield)
}

// Validate returns the first violation encountered among the leg rules.
func (l SwapLeg) Validate() error {
	if l.Owner == "" {
		return ErrLegMissingOwner
	}
	if l.Asset == "" {
		return ErrLegMissingAsset
	}
	if !l.Amount.IsPositive() {
		return ErrLegInvalidAmount
	}
	if l.AccruedYield.IsNegative() {
		return ErrLegInvalidYield
	}
	return nil
}
