// =============================================================================
// Cart Parser - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - cartparser
//   - converter
//   - jsonwriter
//
// =============================================================================

package types

// =============================================================================
// CART TYPES
// =============================================================================

// CartItem represents one validated row of the input CSV.
type CartItem struct {
	// ID is generated fresh at parse time. It has no meaning outside a
	// single parse.
	ID string `json:"id"`

	// Name is the product name, non-empty after trimming.
	Name string `json:"name"`

	// Price is the unit price. Always > 0.
	Price float64 `json:"price"`

	// Quantity is the number of units. Always > 0.
	Quantity int `json:"quantity"`
}

// ParseResult is the outcome of a successful parse.
type ParseResult struct {
	// Items keeps the source row order.
	Items []CartItem `json:"items"`

	// Total is sum(price * quantity) over Items.
	Total float64 `json:"total"`
}
