// Package static maps site files to response bytes and MIME types.
// It is a thin collaborator for the HTTP listener: content comes straight
// from files in a configured directory, with the MIME type derived from the
// file extension.
package static
