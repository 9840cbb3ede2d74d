package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that logs can be
// aggregated and queried by operation, client, and resource.
const (
	// Request pipeline
	KeyOperation = "operation" // Operation name: sync-album-details, add-to-album, ...
	KeyOpCode    = "op_code"   // Numeric operation code from the wire
	KeyStatus    = "status"    // Response status code (200, 401, ...)
	KeyClientIP  = "client_ip" // Client IP address
	KeyUserID    = "user_id"   // Authenticated user id

	// Domain resources
	KeyAlbumID  = "album_id"  // Album identifier
	KeyImageID  = "image_id"  // Image identifier (file name)
	KeyOwnerID  = "owner_id"  // Resource owner user id
	KeyCount    = "count"     // Generic item count
	KeyFileName = "file_name" // Uploaded file name

	// Storage backends
	KeyStoreType = "store_type" // Store type: memory, badger, s3
	KeyBucket    = "bucket"     // S3 bucket name
	KeyKey       = "key"        // Object key in blob storage
	KeyPath      = "path"       // Local filesystem path (badger dir, config file)

	// Operation metadata
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyAuthKind   = "auth_kind"   // Token failure kind (expired, revoked, ...)
)

// Err returns a standard error attribute. Handles nil errors gracefully.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Op returns a standard operation-name attribute.
func Op(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// FormatBytes returns a human-readable byte count ("1.5 KiB", "3.2 MiB").
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
