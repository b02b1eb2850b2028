package application

import (
	"context"

	"github.com/ericfisherdev/storypartner/internal/domain/model"
)

type viewerKey struct{}

// WithViewer returns a copy of ctx carrying v.
func WithViewer(ctx context.Context, v model.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the viewer attached to ctx, or an anonymous viewer.
func ViewerFrom(ctx context.Context) model.Viewer {
	v, _ := ctx.Value(viewerKey{}).(model.Viewer)
	return v
}
