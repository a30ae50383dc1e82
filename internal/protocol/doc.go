// Package protocol defines the Submission type and its wire format.
// A submission travels as a single UTF-8 JSON object datagram; this package
// handles encoding for the send path, decoding for the receive path, and
// parsing of URL-encoded form bodies into submissions.
package protocol
