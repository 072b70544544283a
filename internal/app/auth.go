package app

import "strings"

const bearerPrefix = "Bearer "

// parseBearerToken extracts the token from an "Authorization: Bearer <hex>"
// header value. It reports ok=false for anything that is not exactly the
// prefix followed by 32 lowercase hex characters -- the InvalidToken case,
// distinct from a well-formed but unrecognized token (UnknownToken), which
// only the registry can tell apart.
func parseBearerToken(header string) (token string, ok bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token = header[len(bearerPrefix):]
	if !isValidTokenFormat(token) {
		return "", false
	}
	return token, true
}

func isValidTokenFormat(token string) bool {
	if len(token) != 32 {
		return false
	}
	for _, c := range token {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

func isValidMove(move string) bool {
	switch move {
	case "", "U", "D", "L", "R":
		return true
	default:
		return false
	}
}
