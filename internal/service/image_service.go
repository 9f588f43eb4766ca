package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"blogfront/internal/apperr"
	"blogfront/internal/config"
	"blogfront/internal/imaging"
	"blogfront/internal/storage"
)

// Upload is one file picked in the blog editor.
type Upload struct {
	Name string
	Data []byte
}

// IngestResult carries the updated image list and one error per rejected
// file. Rejections never stop the remaining files.
type IngestResult struct {
	URLs   []string
	Errors []error
}

type ImageService interface {
	Ingest(ctx context.Context, files []Upload, existing []string) IngestResult
	AddURL(raw string, existing []string) ([]string, error)
	RemoveAt(list []string, index int) []string
}

type imageService struct {
	store    storage.ImageStore
	cfg      config.Images
	validate *validator.Validate
}

func NewImageService(store storage.ImageStore, cfg config.Images, validate *validator.Validate) ImageService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 2 * 1024 * 1024
	}
	return &imageService{store: store, cfg: cfg, validate: validate}
}

func (s *imageService) Ingest(ctx context.Context, files []Upload, existing []string) IngestResult {
	const op = "images.ingest"

	res := IngestResult{URLs: append([]string(nil), existing...)}
	seen := make(map[string]bool)
	for _, f := range files {
		if !imaging.IsImage(imaging.Detect(f.Data)) {
			res.Errors = append(res.Errors, apperr.Validationf(op, "%s is not an image file", f.Name))
			continue
		}
		if int64(len(f.Data)) > s.cfg.MaxFileSize {
			res.Errors = append(res.Errors, apperr.Validationf(op, "%s is too large. Maximum size is %s",
				f.Name, humanize.IBytes(uint64(s.cfg.MaxFileSize))))
			continue
		}

		processed := imaging.Process(f.Data, imaging.Options{
			MaxDimension: s.cfg.MaxDimension,
			Quality:      s.cfg.Quality,
		})

		// same picture twice in one batch
		encoded := processed.DataURL()
		if seen[encoded] {
			continue
		}
		seen[encoded] = true

		link, err := s.publish(ctx, f.Name, processed)
		if err != nil {
			res.Errors = append(res.Errors, failed(op, err, "Failed to upload "+f.Name+". Please try again."))
			continue
		}

		if !contains(res.URLs, link) {
			res.URLs = append(res.URLs, link)
		}
	}
	return res
}

func (s *imageService) publish(ctx context.Context, name string, img imaging.Result) (string, error) {
	if s.store == nil {
		return img.DataURL(), nil
	}
	_, link, err := s.store.UploadImage(ctx, name, img.ContentType, img.Data)
	return link, err
}

// AddURL appends a manually entered image link. Blank input leaves the list
// as it is.
func (s *imageService) AddURL(raw string, existing []string) ([]string, error) {
	const op = "images.add_url"

	link := strings.TrimSpace(raw)
	if link == "" {
		return existing, nil
	}

	if err := s.validate.Var(link, "required,url"); err != nil || !isWebURL(link) {
		return existing, apperr.New(apperr.Validation, op, "Please enter a valid URL (e.g., https://example.com/image.jpg)")
	}

	for _, u := range existing {
		if strings.EqualFold(u, link) {
			return existing, apperr.New(apperr.Validation, op, "This image URL has already been added")
		}
	}

	return append(append([]string(nil), existing...), link), nil
}

func (s *imageService) RemoveAt(list []string, index int) []string {
	if index < 0 || index >= len(list) {
		return list
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
