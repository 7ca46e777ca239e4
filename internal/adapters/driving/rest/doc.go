// Package rest exposes the ingestion pipeline over HTTP using gin.
//
// Routes under /api/v1/rag require an HS256 bearer token. Failures are
// returned as {"error": {...}} with a status derived from the error class.
package rest
