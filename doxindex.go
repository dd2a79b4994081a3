// Package doxindex reads, validates, builds and queries documentation search
// indexes in the format emitted by Doxygen (the searchData tables behind a
// generated site's search box).
//
// A table maps a normalized search key to the documentation anchors of every
// symbol with that name. Tables are produced from C/C++ sources by static
// analysis, imported from existing sites or Doxygen XML output, stored in
// SQLite and served to a CLI or an MCP client.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, bleve/, goquery/).
package doxindex
