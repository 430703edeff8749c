package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/Skotchmaster/med_clinic/internal/media"
)

const MaxUploadBytes = 5 << 20

var folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-/]{1,64}$`)

var ErrMediaUnavailable = errors.New("media host unavailable")

type UploadService struct {
	Uploader media.Uploader
}

type UploadInput struct {
	File     io.Reader
	Filename string
	Size     int64
	Folder   string
}

// Upload checks that the payload is an image within MaxUploadBytes and stores it.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (string, error) {
	if in.File == nil {
		return "", fmt.Errorf("file is required: %w", ErrValidation)
	}
	if in.Size > MaxUploadBytes {
		return "", fmt.Errorf("file larger than %d bytes: %w", MaxUploadBytes, ErrValidation)
	}
	folder := media.DefaultFolder
	if f := strings.Trim(in.Folder, "/ "); f != "" {
		if !folderPattern.MatchString(f) {
			return "", fmt.Errorf("invalid folder: %w", ErrValidation)
		}
		folder = path.Join(media.DefaultFolder, f)
	}

	br := bufio.NewReaderSize(io.LimitReader(in.File, MaxUploadBytes+1), 512)
	head, _ := br.Peek(512)
	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return "", fmt.Errorf("only images can be uploaded: %w", ErrValidation)
	}

	url, err := s.Uploader.Upload(ctx, br, path.Base(in.Filename), folder)
	if err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			return "", fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
		}
		return "", err
	}
	return url, nil
}
