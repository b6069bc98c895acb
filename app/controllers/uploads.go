package controllers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/shashiranjanraj/inbox/pkg/storage"
)

// maxPhotoBytes caps uploaded photos at 5 MB.
const maxPhotoBytes = 5 << 20

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// savePhoto validates an uploaded image (extension allow-list, 5 MB limit)
// and writes it to the storage disk under dir with a timestamped unique
// name. Returns the public URL of the stored file.
func savePhoto(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	if header.Size > maxPhotoBytes {
		return "", fmt.Errorf("photo exceeds the 5 MB limit")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("only image files are accepted")
	}

	name := fmt.Sprintf("%s/%d%s", dir, time.Now().UnixNano(), ext)
	if err := storage.PutStream(name, file); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return storage.URL(name), nil
}
