// Package inventory maintains the manually curated accessory list.
//
// The collection is held in memory, sorted by accessory name, and
// persisted as a single JSON blob in a PrefStore under a fixed key using
// the same whole-collection read-modify-write strategy as the vault.
// Accessories hold no secrets, so the preference store needs no at-rest
// protection.
//
// Devices observed by the scanner can be promoted into the inventory;
// promotion copies the name, manufacturer and address and derives the
// category from the advertising service type.
package inventory
