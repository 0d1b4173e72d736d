// Package objects contains the tournament entities shared by the store, biz
// and api layers. They live here to avoid circular dependencies.
package objects
