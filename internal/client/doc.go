// Package client implements the desk-agent application runtime.
//
// It wires the server adapter, local storage, client services, and
// background workers into a single process lifecycle: session restore or
// login, cross-process event watching, connectivity probing, and the
// polling sync loop.
package client
