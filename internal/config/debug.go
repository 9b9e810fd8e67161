package config

import "os"

func IsDebug() bool {
	return os.Getenv("STOPTEXT_DEBUG") == "1"
}

// IsJSONLog reports whether logs should be plain JSON lines instead of console output.
func IsJSONLog() bool {
	return os.Getenv("STOPTEXT_LOG_FORMAT") == "json"
}
