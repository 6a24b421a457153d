package contract

import "fmt"

// ChainNet is the fixed single-byte enum of spec.md §6.1.
type ChainNet uint8

const (
	ChainNetBitcoinMainnet  ChainNet = 0
	ChainNetBitcoinTestnet3 ChainNet = 1
	ChainNetBitcoinTestnet4 ChainNet = 2
	ChainNetBitcoinSignet   ChainNet = 3
	ChainNetBitcoinRegtest  ChainNet = 4
	ChainNetLiquidMainnet   ChainNet = 5
	ChainNetLiquidTestnet   ChainNet = 6
)

func (c ChainNet) Valid() bool { return c <= ChainNetLiquidTestnet }

func (c ChainNet) String() string {
	switch c {
	case ChainNetBitcoinMainnet:
		return "bitcoinMainnet"
	case ChainNetBitcoinTestnet3:
		return "bitcoinTestnet3"
	case ChainNetBitcoinTestnet4:
		return "bitcoinTestnet4"
	case ChainNetBitcoinSignet:
		return "bitcoinSignet"
	case ChainNetBitcoinRegtest:
		return "bitcoinRegtest"
	case ChainNetLiquidMainnet:
		return "liquidMainnet"
	case ChainNetLiquidTestnet:
		return "liquidTestnet"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// SealClosingStrategy is the fixed single-byte enum of spec.md §6.1.
type SealClosingStrategy uint8

const SealClosingFirstOpretOrTapret SealClosingStrategy = 0

func (s SealClosingStrategy) Valid() bool { return s == SealClosingFirstOpretOrTapret }

// FungibleType enumerates the representations a FungibleState may carry.
// Only bits64 is active at this protocol version (spec.md §3.3).
type FungibleType uint8

const FungibleTypeUnsigned64Bit FungibleType = 8

func (f FungibleType) Valid() bool { return f == FungibleTypeUnsigned64Bit }

// StateKind is the tagged-union discriminant shared by TypedAssigns and
// OwnedStateSchema (spec.md §3.3/§3.5). The numeric values are this
// implementation's own choice — spec.md fixes only that a single-byte
// discriminant is used, not its value — and are recorded as a design
// decision in DESIGN.md.
type StateKind uint8

const (
	StateKindDeclarative StateKind = 0
	StateKindFungible    StateKind = 1
	StateKindStructured  StateKind = 2
)

func (k StateKind) String() string {
	switch k {
	case StateKindDeclarative:
		return "declarative"
	case StateKindFungible:
		return "fungible"
	case StateKindStructured:
		return "structured"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// MetaType, GlobalStateType, AssignmentType and TransitionType are the
// schema-declared type identifiers of spec.md §3.5, all U16-width per the
// Opout.ty field width that anchors the same namespace.
type MetaType uint16
type GlobalStateType uint16
type AssignmentType uint16
type TransitionType uint16

// Occurrences bounds how many instances of a type may occur in one
// operation (spec.md §3.5/§4.5 step 2c/2d/2e).
type Occurrences struct {
	Min uint16
	Max uint16
}

func (o Occurrences) Contains(n int) bool {
	return n >= int(o.Min) && n <= int(o.Max)
}
