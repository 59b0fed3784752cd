// Package booklist lists the books under a root location and keeps the
// state of the book list screen.
package booklist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/datatug/pngnote/pkg/files"
)

var (
	ErrNoRoot           = errors.New("no root location selected")
	ErrRootNotDirectory = errors.New("root location is not a directory")
	ErrRootInaccessible = errors.New("root location is not accessible")
	ErrCreateFailed     = errors.New("can't create book directory")
)

// List returns the sub-directories of root, sorted by raw name in
// descending order. Files are not books and are skipped.
func List(ctx context.Context, root files.Handle) ([]files.Handle, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, root.Path)
	}
	children, err := root.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootInaccessible, root.Path, err)
	}
	books := make([]files.Handle, 0, len(children))
	for _, child := range children {
		if child.IsDir() {
			books = append(books, child)
		}
	}
	slices.SortStableFunc(books, func(a, b files.Handle) int {
		return strings.Compare(b.Name, a.Name)
	})
	return books, nil
}
