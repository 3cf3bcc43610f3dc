// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memories

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wayfare/internal/platform/apperr"
	"github.com/taibuivan/wayfare/internal/platform/constants"
	requestutil "github.com/taibuivan/wayfare/internal/platform/request"
	"github.com/taibuivan/wayfare/internal/platform/respond"
	"github.com/taibuivan/wayfare/internal/platform/validate"
	"github.com/taibuivan/wayfare/internal/users/session"
)

// multipartMemory is how much of a form is buffered in memory before spilling to disk.
const multipartMemory = 8 << 20

// sniffLength is how many bytes [http.DetectContentType] looks at.
const sniffLength = 512

var safeExtension = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// Authenticator resolves the caller from the session cookie.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Identity, error)
}

// Handler implements the memories HTTP endpoints.
type Handler struct {
	memoryService  *Service
	authenticator  Authenticator
	maxUploadBytes int64
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, authenticator Authenticator, maxUploadBytes int64) *Handler {
	return &Handler{memoryService: service, authenticator: authenticator, maxUploadBytes: maxUploadBytes}
}

// Routes returns a [chi.Router] with the memories routes.
//
// # Endpoints
//   - GET    /     : Lists the caller's memories.
//   - POST   /     : Uploads a new memory (multipart).
//   - DELETE /{id} : Deletes one of the caller's memories.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{id}", handler.delete)

	return router
}

// identity re-derives the caller from the cookie. The session gate has already
// run, but it deliberately does not pass the identity along.
func (handler *Handler) identity(request *http.Request) (*session.Identity, error) {
	return handler.authenticator.Authenticate(request.Context(), requestutil.SessionToken(request))
}

/*
List returns every memory of the caller.

GET /api/memories

Response:
  - 200: []Memory ordered by assigned_date, then created_at
  - 401: Not authenticated
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	caller, err := handler.identity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memories, err := handler.memoryService.List(request.Context(), caller.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, memories)
}

/*
Create stores a new memory.

POST /api/memories

Request:
  - multipart/form-data: image (file), assigned_date (YYYY-MM-DD), message, mode_type (travel|static)

Response:
  - 201: Memory
  - 400: Missing image or date, invalid date or mode, or a file that is not an image
  - 401: Not authenticated
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	caller, err := handler.identity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxUploadBytes)
	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, validate.RequiredError(FieldImage, "Image exceeds the upload size limit"))
			return
		}
		respond.Error(writer, request, apperr.ValidationError("Expected a multipart form"))
		return
	}
	defer request.MultipartForm.RemoveAll()

	file, header, fileErr := request.FormFile(FieldImage)
	if fileErr == nil {
		defer file.Close()
	}

	assignedDate := strings.TrimSpace(request.FormValue(FieldAssignedDate))
	modeType := Mode(strings.TrimSpace(request.FormValue(FieldModeType)))
	if modeType == "" {
		modeType = ModeTravel
	}

	validator := &validate.Validator{}
	validator.Custom(FieldImage, fileErr != nil, "An image file is required").
		Required(FieldAssignedDate, assignedDate).
		Date(FieldAssignedDate, assignedDate).
		OneOf(FieldModeType, string(modeType), string(ModeTravel), string(ModeStatic))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	contentType, err := sniffImage(file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memory, err := handler.memoryService.Create(request.Context(), CreateInput{
		OwnerID:      caller.UserID,
		AssignedDate: assignedDate,
		Message:      request.FormValue(FieldMessage),
		ModeType:     modeType,
		Image:        file,
		ImageSize:    header.Size,
		ContentType:  contentType,
		Extension:    imageExtension(header.Filename, contentType),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, memory)
}

/*
Delete removes one of the caller's memories and its image.

DELETE /api/memories/{id}

Response:
  - 200: {"success": true}
  - 401: Not authenticated
  - 403: The memory belongs to someone else
  - 404: Memory not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	caller, err := handler.identity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.memoryService.Delete(request.Context(), caller.UserID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{constants.FieldSuccess: true})
}

// # Upload Helpers

// sniffImage checks the leading bytes of file and rewinds it.
func sniffImage(file multipart.File) (string, error) {
	head := make([]byte, sniffLength)
	read, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", apperr.ValidationError("Could not read the uploaded image")
	}

	contentType := http.DetectContentType(head[:read])
	if !strings.HasPrefix(contentType, "image/") {
		return "", validate.RequiredError(FieldImage, "The uploaded file is not an image")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", apperr.Internal(err)
	}

	return contentType, nil
}

// imageExtension keeps a sane client extension, or derives one from the content type.
func imageExtension(filename, contentType string) string {
	if extension := strings.ToLower(filepath.Ext(filename)); safeExtension.MatchString(extension) {
		return extension
	}
	if extensions, err := mime.ExtensionsByType(contentType); err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ""
}
