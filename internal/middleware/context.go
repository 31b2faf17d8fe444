package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const localeContextKey = contextKey("locale")

// Locale retrieves the resolved locale from the request context. The empty
// string means no locale middleware ran for this request.
func Locale(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey).(string)
	return locale
}

// WithLocale stores the resolved locale in the request context.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey, locale)
}
