package transport

import "net/http"

// AuthFailure decides whether a non-2xx response means the access token is expired or invalid.
type AuthFailure func(statusCode int, apiErr *APIError) bool

// DefaultAuthFailure matches HTTP 401 or the token_not_valid application code.
func DefaultAuthFailure(statusCode int, apiErr *APIError) bool {
	return AuthFailureCodes(TokenNotValidCode)(statusCode, apiErr)
}

// AuthFailureCodes matches HTTP 401 or any of the supplied application codes.
func AuthFailureCodes(codes ...string) AuthFailure {
	return func(statusCode int, apiErr *APIError) bool {
		if statusCode == http.StatusUnauthorized {
			return true
		}
		if apiErr == nil || apiErr.Code == "" {
			return false
		}
		for _, code := range codes {
			if apiErr.Code == code {
				return true
			}
		}
		return false
	}
}
