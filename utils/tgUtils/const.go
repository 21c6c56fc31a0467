package tgUtils

const (
	MaxMessageLength = 4096

	ErrBlockedByUser = "Forbidden: bot was blocked by the user"
)
