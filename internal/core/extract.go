package core

import "strings"

const (
	headerAuthorization = "Authorization"
	headerDPoP          = "DPoP"
	headerContentType   = "Content-Type"
	formURLEncoded      = "application/x-www-form-urlencoded"
	formFieldToken      = "access_token"
	queryFieldToken     = "access_token"

	bearerPrefix = "Bearer " // exactly seven characters including trailing space
	dpopPrefix   = "DPoP "   // exactly five characters including trailing space
)

// extractToken implements spec.md §4.1's three mutually exclusive
// extraction modes. It returns the token string, whether it was presented
// with the DPoP scheme (only possible in Header mode), and whether a token
// was found at all.
func extractToken(req Request, method TokenLocation) (token string, isDPoP bool, ok bool) {
	switch method {
	case Header:
		return extractFromHeader(req)
	case Body:
		return extractFromBody(req)
	case Query:
		return extractFromQuery(req)
	default:
		return "", false, false
	}
}

func extractFromHeader(req Request) (string, bool, bool) {
	auth, present := req.Header(headerAuthorization)
	if !present || auth == "" {
		return "", false, false
	}

	if len(auth) >= len(bearerPrefix) && strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return auth[len(bearerPrefix):], false, true
	}
	if len(auth) >= len(dpopPrefix) && strings.EqualFold(auth[:len(dpopPrefix)], dpopPrefix) {
		return auth[len(dpopPrefix):], true, true
	}
	return "", false, false
}

func extractFromBody(req Request) (string, bool, bool) {
	contentType, present := req.Header(headerContentType)
	if !present || !strings.Contains(contentType, formURLEncoded) {
		return "", false, false
	}
	token, ok := req.Form(formFieldToken)
	if !ok || token == "" {
		return "", false, false
	}
	return token, false, true
}

func extractFromQuery(req Request) (string, bool, bool) {
	token, ok := req.Query(queryFieldToken)
	if !ok || token == "" {
		return "", false, false
	}
	return token, false, true
}
