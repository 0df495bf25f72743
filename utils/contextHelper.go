package utils

import (
	"context"

	"github.com/cms-acad/acadbot_backend/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyAuthorId      = appctx.ContextKeyAuthorId
	ContextKeyChannelId     = appctx.ContextKeyChannelId
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetAuthorIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAuthorId)
}

func GetChannelIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyChannelId)
}

func SetCorrelationIdInContext(ctx context.Context, id string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, id)
}

func SetAuthorIdInContext(ctx context.Context, id string) context.Context {
	return appctx.Set(ctx, ContextKeyAuthorId, id)
}

func SetChannelIdInContext(ctx context.Context, id string) context.Context {
	return appctx.Set(ctx, ContextKeyChannelId, id)
}
