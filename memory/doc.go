// Package memory provides minimal session transcript persistence.
//
// Persistence model:
//   - Only text messages are stored (role + text). Tool blocks are transient.
//   - One JSON file per session under the store directory.
package memory
