// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memories

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/wayfare/internal/platform/apperr"
	"github.com/taibuivan/wayfare/internal/platform/blob"
	"github.com/taibuivan/wayfare/internal/platform/ctxutil"
	"github.com/taibuivan/wayfare/pkg/pointer"
	"github.com/taibuivan/wayfare/pkg/uuid"
)

// Service implements the memory use cases on top of the row and blob stores.
type Service struct {
	repository Repository
	blobs      blob.Store
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, blobs blob.Store) *Service {
	return &Service{repository: repository, blobs: blobs, now: time.Now}
}

// CreateInput carries a validated upload.
type CreateInput struct {
	OwnerID      string
	AssignedDate string
	Message      string
	ModeType     Mode

	Image       io.Reader
	ImageSize   int64
	ContentType string

	// Extension includes the leading dot, e.g. ".jpg".
	Extension string
}

// List returns the owner's memories in timeline order.
func (service *Service) List(ctx context.Context, ownerID string) ([]Memory, error) {
	memories, err := service.repository.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}
	if memories == nil {
		memories = []Memory{}
	}
	return memories, nil
}

/*
Create uploads the image and records the memory.

Description: The image is written first. If the row cannot be inserted the
image is removed again so that no orphan is left behind.

Returns:
  - *Memory: The stored memory
  - error: StoreUnavailable when either store fails
*/
func (service *Service) Create(ctx context.Context, input CreateInput) (*Memory, error) {
	id := uuid.New()

	imageURL, err := service.blobs.Put(ctx, blobKeyPrefix+id+input.Extension, input.Image, input.ImageSize, input.ContentType)
	if err != nil {
		return nil, apperr.StoreUnavailable(err)
	}

	memory := &Memory{
		ID:           id,
		UserID:       input.OwnerID,
		ImageURL:     imageURL,
		AssignedDate: input.AssignedDate,
		Message:      pointer.NonZero(strings.TrimSpace(input.Message)),
		ModeType:     input.ModeType,
		CreatedAt:    service.now().UTC(),
	}

	if err := service.repository.Create(ctx, memory); err != nil {
		if cleanupErr := service.blobs.Delete(ctx, imageURL); cleanupErr != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "blob_orphaned", slog.String("url", imageURL), slog.Any("error", cleanupErr))
		}
		return nil, apperr.StoreUnavailable(err)
	}

	return memory, nil
}

/*
Delete removes a memory owned by ownerID.

Description: A blob that cannot be deleted is logged and otherwise ignored.
The row is always removed afterwards.

Returns:
  - error: NotFound, Forbidden (other owner, or a legacy row), or StoreUnavailable
*/
func (service *Service) Delete(ctx context.Context, ownerID, id string) error {
	memory, err := service.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMemoryNotFound) {
			return apperr.NotFound("Memory")
		}
		return apperr.StoreUnavailable(err)
	}

	if memory.UserID == "" || memory.UserID != ownerID {
		return apperr.Forbidden("You do not have access to this memory")
	}

	logger := ctxutil.GetLogger(ctx)
	if err := service.blobs.Delete(ctx, memory.ImageURL); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			logger.DebugContext(ctx, "blob_already_gone", slog.String("url", memory.ImageURL))
		} else {
			logger.WarnContext(ctx, "blob_delete_failed", slog.String("url", memory.ImageURL), slog.Any("error", err))
		}
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return apperr.StoreUnavailable(err)
	}

	return nil
}
