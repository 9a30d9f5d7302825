package tracker

import "context"

type episodeKey struct{}

// WithEpisode attaches an episode to ctx so instrumented tools can find it.
func WithEpisode(ctx context.Context, episode *Episode) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, episodeKey{}, episode)
}

// FromContext returns the episode attached to ctx, if any.
func FromContext(ctx context.Context) (*Episode, bool) {
	if ctx == nil {
		return nil, false
	}
	episode, ok := ctx.Value(episodeKey{}).(*Episode)
	return episode, ok && episode != nil
}
