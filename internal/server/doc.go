// Package server implements the Gosplan relay: a WebSocket broadcast bus.
//
// Each client is greeted with a random UUID and every text frame any client
// sends is written verbatim to every connected client, the sender included.
// The Registry is the only state shared between connections; Session owns a
// single connection's read loop, and connSink owns its writes.
package server
