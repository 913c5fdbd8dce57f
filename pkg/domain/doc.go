// Package domain contains the core domain entities and types used by the
// application. These types represent the bookkeeping concepts (users,
// categories, quick-entry fragments and committed entries) and are
// intentionally free of infrastructure concerns so they can be shared across
// packages.
package domain
