package style

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/record"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var (
	log = logger.Get("StyleServ")

	// ErrImageNotFound is returned when a requested style image does
	// not exist on disk (or the filename is not one we could have
	// produced).
	ErrImageNotFound = errors.New("style image not found")
)

// Service owns the style collection: the JSON records themselves, plus
// the decoded image that accompanies each one.
type Service struct {
	records  record.Store[Style]
	imageDir string
}

func NewService(records record.Store[Style], imageDir string) *Service {
	return &Service{records: records, imageDir: imageDir}
}

func (service *Service) List() ([]Style, error) {
	return service.records.List()
}

// Create persists a new style. The image payload is base64 (a data-URL
// prefix is tolerated and stripped) and is written to disk as a PNG
// next to the record before the record itself is committed.
func (service *Service) Create(name string, prompt string, imageData string) (Style, error) {
	payload, err := decodeImagePayload(imageData)
	if err != nil {
		return Style{}, fmt.Errorf("style image payload could not be decoded: %w", err)
	}

	id := uuid.New()
	filename := id.String() + ".png"
	if err := os.MkdirAll(service.imageDir, os.ModeDir|os.ModePerm); err != nil {
		return Style{}, fmt.Errorf("style image directory could not be created: %w", err)
	}
	if err := os.WriteFile(filepath.Join(service.imageDir, filename), payload, 0o644); err != nil {
		return Style{}, fmt.Errorf("style image could not be written: %w", err)
	}

	style := Style{
		Id:        id,
		Name:      name,
		Prompt:    prompt,
		ImageURL:  "/styles/image/" + filename,
		CreatedAt: time.Now(),
	}

	if err := service.records.Create(style); err != nil {
		// Don't leave an orphaned image behind when the record write failed.
		os.Remove(filepath.Join(service.imageDir, filename))
		return Style{}, err
	}

	log.Emit(logger.NEW, "Created style %s (%s)\n", style.Id, style.Name)
	return style, nil
}

// Delete removes the style record and its image. Deleting an unknown
// id is a no-op.
func (service *Service) Delete(id uuid.UUID) error {
	if err := service.records.Delete(id); err != nil {
		return err
	}

	imagePath := filepath.Join(service.imageDir, id.String()+".png")
	if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("style image '%s' could not be deleted: %w", imagePath, err)
	}

	log.Emit(logger.REMOVE, "Deleted style %s\n", id)
	return nil
}

// ImagePath resolves a servable image filename to its on-disk path.
// The filename must be a bare name; anything containing path elements
// is rejected the same as a missing file.
func (service *Service) ImagePath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", ErrImageNotFound
	}

	path := filepath.Join(service.imageDir, filename)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", ErrImageNotFound
	}

	return path, nil
}

// decodeImagePayload accepts raw base64, optionally prefixed in the
// data-URL form 'data:image/png;base64,....'.
func decodeImagePayload(imageData string) ([]byte, error) {
	if idx := strings.Index(imageData, ","); idx != -1 && strings.HasPrefix(imageData, "data:") {
		imageData = imageData[idx+1:]
	}

	return base64.StdEncoding.DecodeString(imageData)
}
