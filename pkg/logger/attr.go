package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

// Role records a role value under the key "role".
func Role(role any) slog.Attr {
	return slog.Any("role", role)
}

// Tier records a subscription tier under the key "tier".
func Tier(tier any) slog.Attr {
	return slog.Any("tier", tier)
}

// Event records a processor event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
