// Package fetch is the HTTP layer shared by the dictionary, image and audio
// lookups. Each request is a single timed attempt carrying a randomly picked
// browser identity; an optional circuit breaker stops a batch run from
// hammering the site once it starts failing.
package fetch
