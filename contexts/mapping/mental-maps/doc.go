// Package mentalmaps contains the mental maps service: user-owned maps, their
// positioned elements and the moderation reports filed against them.
//
// Access rules live in domain/services, state lives behind the ports, and the
// same application services run over the in-memory store or Postgres.
package mentalmaps
