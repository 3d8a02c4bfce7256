// Package document defines the serialized forms of records and layouts.
//
// Record files are read from JSON or YAML, either as a bare list or as an
// object with a "records" list:
//
//	records:
//	  - id: go
//	    sets: [compiled, gc]
//	  - label: python
//	    sets: [scripting, gc]
//
// Records without an id get a random UUID. Layouts are written as indented
// JSON and carry bson tags so the same struct is stored in MongoDB.
//
// [Export] converts a computed [layout.Layout] into a [Layout] document,
// optionally sampling each region's boundary transition into frames.
// [Layout.CircleTable] recovers the circle geometry of a stored document so
// a later computation can animate from it.
package document
