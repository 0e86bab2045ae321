// Package filex contains small filesystem helpers used by the client.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubDir creates dirName under the current working directory (if it
// does not exist yet) and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// MimeCategory buckets a file name into one of the coarse categories the
// file list renders: image, video, audio, document or other.
func MimeCategory(name string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "png", "jpg", "jpeg", "gif", "webp", "bmp", "svg", "heic":
		return "image"
	case "mp4", "mov", "avi", "mkv", "webm":
		return "video"
	case "mp3", "wav", "ogg", "flac", "m4a":
		return "audio"
	case "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt", "md", "csv":
		return "document"
	default:
		return "other"
	}
}
