// Package storage persists received submissions to a single JSON log file.
// The log is one pretty-printed JSON object mapping timestamp strings to
// submissions; every append is a full read-modify-write of the file.
package storage
