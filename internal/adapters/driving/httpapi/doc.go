// Package httpapi exposes ingestion, reset and question answering over
// HTTP using gin.
//
// Routes:
//   - POST /upload-pdf/  multipart "files", extracted and indexed
//   - POST /reset-db/    destroys the index
//   - POST /query-pdf/   answers "query_text" from the indexed chunks
//   - GET  /healthz      index entry count
package httpapi
