/*
Package session implements session management and persistence orchestration.

The wizard engine is stateless; hosts that keep sessions between requests (the HTTP
and MCP adapters) go through a Manager, which serialises read-modify-write cycles per
session ID with in-process locks and, across replicas, an optional distributed locker.
*/
package session
