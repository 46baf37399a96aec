// Package customer models the buyer of an order and the postal addresses used on it.
//
// Customers are resolved by email: the same email always maps to one Customer, and a
// later order refreshes its profile. Addresses are appended per order and never edited.
package customer
