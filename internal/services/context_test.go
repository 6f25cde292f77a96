package services_test

import (
	"context"
	"testing"

	"contentprep/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSetID(ctx, "set-1")
	ctx = services.WithFolder(ctx, "pending/courses")
	ctx = services.WithRequestID(ctx, "req-123")

	if id, ok := services.SetIDFromContext(ctx); !ok || id != "set-1" {
		t.Fatalf("unexpected set id: %v %v", id, ok)
	}
	if folder, ok := services.FolderFromContext(ctx); !ok || folder != "pending/courses" {
		t.Fatalf("unexpected folder: %v %v", folder, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithSetID(ctx, "")
	ctx = services.WithFolder(ctx, "")
	if _, ok := services.SetIDFromContext(ctx); ok {
		t.Fatal("expected no set id value")
	}
	if _, ok := services.FolderFromContext(ctx); ok {
		t.Fatal("expected no folder value")
	}
}
