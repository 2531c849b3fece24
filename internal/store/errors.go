package store

import "errors"

var ErrNotFound = errors.New("not found")

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
