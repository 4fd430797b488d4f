package assessment

import "context"

type resultIDKey struct{}

// WithResultID tags ctx with the identity of one finished test. Every
// delivery attempt of that result carries the same ID.
func WithResultID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, resultIDKey{}, id)
}

// ResultIDFrom returns the tagged ID, or "" when ctx carries none.
func ResultIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(resultIDKey{}).(string)
	return id
}
