// Package fedreg provides a natural-language search assistant over a local
// database of Federal Register documents. It ingests documents from the
// Federal Register API, stores them in SQLite, and answers free-text queries
// by classifying them into a small set of intents (help, recent, find,
// search) backed by parameterized lookups.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or external service (e.g., sqlite/,
// federalregister/, gemini/).
package fedreg
