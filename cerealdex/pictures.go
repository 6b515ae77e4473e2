package cerealdex

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ImageExtension returns the lower-case extension of name if it is an
// allowed picture type
func ImageExtension(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" || !slices.Contains(AllowedImageExtensions, ext) {
		return "", false
	}
	return ext, true
}

// Picture returns the picture row of a cereal
func (s *Store) Picture(ctx context.Context, cerealID int64) (Picture, error) {
	var p Picture
	err := s.db.QueryRowContext(ctx, s.adapter.SQL().GetPictureByCereal, cerealID).Scan(&p.ID, &p.CerealID, &p.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return Picture{}, NotFoundError("picture for cereal", cerealID)
	}
	if err != nil {
		return Picture{}, Wrap(ErrSQL, "get picture", err)
	}
	return p, nil
}

// PictureFile resolves a stored picture path inside the static directory
func (s *Store) PictureFile(p Picture) string {
	return filepath.Join(s.opts.StaticDir, filepath.Base(p.Path))
}

// SavePicture writes the upload to the static directory under a fresh
// name and attaches it to the cereal, replacing any previous picture.
func (s *Store) SavePicture(ctx context.Context, cerealID int64, filename string, r io.Reader) (Picture, error) {
	ext, ok := ImageExtension(filename)
	if !ok {
		return Picture{}, UnsupportedFileError(filename)
	}
	found, err := s.exists(ctx, cerealID)
	if err != nil {
		return Picture{}, err
	}
	if !found {
		return Picture{}, NotFoundError("cereal", cerealID)
	}

	if err := os.MkdirAll(s.opts.StaticDir, 0o755); err != nil {
		return Picture{}, Wrap(ErrIO, "create static dir", err)
	}
	name := uuid.NewString() + "." + ext
	dst := filepath.Join(s.opts.StaticDir, name)
	f, err := os.Create(dst)
	if err != nil {
		return Picture{}, Wrap(ErrIO, "create picture file", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return Picture{}, Wrap(ErrIO, "write picture file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return Picture{}, Wrap(ErrIO, "write picture file", err)
	}

	old, oldErr := s.Picture(ctx, cerealID)
	p, err := s.AttachPicture(ctx, cerealID, name)
	if err != nil {
		os.Remove(dst)
		return Picture{}, err
	}
	if oldErr == nil && old.Path != name {
		s.removePictureFile(old.Path)
	}
	s.log.Info("picture saved", "cereal_id", cerealID, "path", name)
	return p, nil
}

// AttachPicture records path as the picture of a cereal without touching
// the file system
func (s *Store) AttachPicture(ctx context.Context, cerealID int64, path string) (Picture, error) {
	sqlt := s.adapter.SQL()
	res, err := s.db.ExecContext(ctx, sqlt.UpdatePicture, cerealID, path)
	if err != nil {
		return Picture{}, Wrap(ErrSQL, "update picture", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Picture{}, Wrap(ErrSQL, "update picture", err)
	}
	if n == 0 {
		if _, err := s.db.ExecContext(ctx, sqlt.InsertPicture, cerealID, path); err != nil {
			return Picture{}, Wrap(ErrSQL, "insert picture", err)
		}
	}
	return s.Picture(ctx, cerealID)
}

func (s *Store) removePictureFile(path string) {
	if path == "" {
		return
	}
	full := filepath.Join(s.opts.StaticDir, filepath.Base(path))
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("remove picture file", "path", full, "err", err)
	}
}
