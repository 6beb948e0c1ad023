package helper

import (
	"fmt"
	"time"

	"github.com/trongdh/rentora/pkg/constant"
)

// BuildCacheKey builds a cache key based on the provided key and optional postfix
func BuildCacheKey(key string, postfix ...string) string {
	if len(postfix) > 0 && postfix[0] != "" {
		return fmt.Sprintf("%s:cache:%s:%s", constant.CacheParentKey, key, postfix[0])
	}

	return fmt.Sprintf("%s:cache:%s", constant.CacheParentKey, key)
}

var (
	// AppTimezone holds the application's timezone
	AppTimezone *time.Location
)

// InitTimezone initializes the application timezone
func InitTimezone(timezone string) error {
	if timezone == "" {
		timezone = "UTC"
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		AppTimezone = time.UTC

		return nil
	}

	AppTimezone = loc

	return nil
}

// Location returns the application's timezone, defaulting to UTC before
// InitTimezone has run.
func Location() *time.Location {
	if AppTimezone == nil {
		return time.UTC
	}

	return AppTimezone
}

// NowInAppTimezone returns the current time in the application's timezone
func NowInAppTimezone() time.Time {
	return time.Now().In(Location())
}

// ToAppTimezone converts a time to the application's timezone
func ToAppTimezone(t time.Time) time.Time {
	return t.In(Location())
}
