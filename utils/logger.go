// file: utils/logger.go
package utils

import (
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger. JSON output so operators can
// filter the verification and abuse paths by field.
var Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
