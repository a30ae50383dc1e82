// Package relay sends submissions to the UDP back end as fire-and-forget
// datagrams. There is no acknowledgment and no retry; delivery is best effort.
package relay
