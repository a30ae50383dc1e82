// Package server implements the service's two listeners: the UDP server that
// receives submission datagrams and persists them, and the HTTP listener that
// serves the site and relays posted forms to the UDP back end.
package server
