// Package canon produces canonical JSON and domain-separated hashes.
//
// Fingerprints of instruction tapes and scenarios must be stable across
// runs and platforms, so they are computed over RFC 8785 style canonical
// JSON:
//   - object keys sorted by UTF-16 code units
//   - strings NFC normalised, no HTML escaping
//   - no floats and no null (callers format floats as strings first)
//
// canon imports nothing internal.
package canon
