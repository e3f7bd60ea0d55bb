// Package docs Tax Engine API.
//
// Computes United States sales tax for point-of-sale orders located only by
// geographic coordinates. Resolves the taxing jurisdiction for a coordinate,
// assembles a composite rate from a time-versioned rate table, and persists
// an immutable order record with a full per-jurisdiction breakdown. Also
// ingests bulk historical orders from a delimited text file as a background
// job.
//
//	Schemes: http, https
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//	- multipart/form-data
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
