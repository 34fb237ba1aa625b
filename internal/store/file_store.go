package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abgdnv/glowcart/internal/catalog"
	"github.com/abgdnv/glowcart/internal/codec"
	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/orders"
	"github.com/abgdnv/glowcart/internal/users"
)

// Files names the backing files of a FileStore.
type Files struct {
	Dir      string
	Users    string
	Products string
	Orders   string
}

func (f Files) path(name string) string {
	return filepath.Join(f.Dir, name)
}

// FileStore reads and writes the line-oriented data files.
type FileStore struct {
	files  Files
	logger *slog.Logger
}

// NewFileStore creates a FileStore for the given files.
func NewFileStore(files Files, logger *slog.Logger) *FileStore {
	return &FileStore{
		files:  files,
		logger: logger.With("component", "store"),
	}
}

// LoadAll reads the user, product and order files. A missing file counts as
// empty. Lines that fail to decode are logged, counted and skipped, and a file
// that cannot be opened is logged and treated as empty. The only error
// returned is the context's.
func (s *FileStore) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Catalog: catalog.NewIndex(),
		Users:   users.NewRegistry(),
		Orders:  orders.NewLog(),
	}

	report := func(file string, err error) {
		snap.Problems = append(snap.Problems, fmt.Errorf("%s: %w", file, err))
		if errors.Is(err, perrors.ErrMalformedRecord) {
			snap.Skipped++
		}
		s.logger.WarnContext(ctx, "Skipping unreadable record", "file", file, "error", err)
	}

	loaders := []struct {
		name string
		load func(r io.Reader)
	}{
		{s.files.Users, func(r io.Reader) {
			s.scan(s.files.Users, r, report, func(line string) error {
				u, err := codec.DecodeUser(line)
				if err == nil {
					snap.Users.Add(u)
				}
				return err
			})
		}},
		{s.files.Products, func(r io.Reader) {
			s.scan(s.files.Products, r, report, func(line string) error {
				p, err := codec.DecodeProduct(line)
				if err == nil {
					snap.Catalog.Insert(p)
				}
				return err
			})
		}},
		{s.files.Orders, func(r io.Reader) {
			decoded, errs := codec.DecodeOrders(r)
			for _, o := range decoded {
				snap.Orders.Enqueue(o)
			}
			for _, err := range errs {
				report(s.files.Orders, err)
			}
		}},
	}

	for _, l := range loaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(s.files.path(l.name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				s.logger.DebugContext(ctx, "Data file absent, starting empty", "file", l.name)
				continue
			}
			report(l.name, fmt.Errorf("%w: %v", perrors.ErrIOUnavailable, err))
			continue
		}
		l.load(f)
		_ = f.Close()
	}

	s.logger.InfoContext(ctx, "Data loaded",
		"users", snap.Users.Len(),
		"products", snap.Catalog.Len(),
		"orders", snap.Orders.Len(),
		"skipped", snap.Skipped,
	)
	return snap, nil
}

func (s *FileStore) scan(file string, r io.Reader, report func(string, error), decode func(line string) error) {
	err := codec.ScanLines(r, func(lineNo int, line string) {
		if err := decode(line); err != nil {
			report(file, fmt.Errorf("line %d: %w", lineNo, err))
		}
	})
	if err != nil {
		report(file, fmt.Errorf("%w: %v", perrors.ErrIOUnavailable, err))
	}
}

// SaveUser appends u to the user file.
func (s *FileStore) SaveUser(u users.User) error {
	return s.appendTo(s.files.Users, codec.EncodeUser(u))
}

// SaveOrder appends o to the order file.
func (s *FileStore) SaveOrder(o orders.Order) error {
	return s.appendTo(s.files.Orders, codec.EncodeOrder(o))
}

// SaveProducts rewrites the product file from products. The new content is
// written to a temporary file and renamed over the old one.
func (s *FileStore) SaveProducts(products []catalog.Product) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	dir := s.files.Dir
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, s.files.Products+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, s.files.Products, err)
	}
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmp.Name())
	}()

	for _, p := range products {
		if _, err := io.WriteString(tmp, codec.EncodeProduct(p)); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, s.files.Products, err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, s.files.Products, err)
	}
	if err := os.Rename(tmp.Name(), s.files.path(s.files.Products)); err != nil {
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, s.files.Products, err)
	}
	s.logger.Debug("Products saved", "count", len(products))
	return nil
}

func (s *FileStore) appendTo(name, text string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.files.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, name, err)
	}
	if _, err := io.WriteString(f, text); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, name, err)
	}
	s.logger.Debug("Record appended", "file", name)
	return nil
}

func (s *FileStore) ensureDir() error {
	if s.files.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.files.Dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", perrors.ErrIOUnavailable, s.files.Dir, err)
	}
	return nil
}
