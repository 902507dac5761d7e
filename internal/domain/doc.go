// Package domain defines the core business entities of the WordVault
// application: users, words, collections, ingestion jobs, and practice
// sessions, together with the state transitions that govern them.
package domain
