// Package models defines the core domain models for Paylink.
//
// # Models
//
//   - Billing: a requested charge with a derived total, an anonymous payment
//     token and a settlement status
//   - Pay: one accepted payment applied against a Billing's pending balance
//   - User: merchant account that owns billings
//   - Principal: the authenticated caller of a request, or nil for anonymous
//
// # Money
//
// All amounts are decimal.Decimal held in whole cents. Inputs with more places
// are rejected and a discounted total is rounded to cents when derived, so the
// pending balance shown to a payer is exactly the balance admission checks.
// Discounts are percentages with up to six places.
//
// # Relationships
//
// Relationships are IDs, never pointers: Pay.BillingID references a Billing and
// Billing.OwnerID references a User. Collections such as "pays of a billing" are
// loaded explicitly through repository queries.
package models
