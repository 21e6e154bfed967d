package pagination

import (
	"context"
	"fmt"
)

var (
	// DefaultPageSize is the page size used whenever a caller does not specify one
	DefaultPageSize = 10

	// MaxPageSize is the upper bound enforced on the page size of every request
	MaxPageSize = 100
)

// Request represents the window parameters of a pagination request.
// Page numbers are 1-indexed.
type Request struct {
	Page int
	Size int
}

// DefaultRequest returns a request for the first page using the default page size
func DefaultRequest() Request {
	return Request{
		Page: 1,
		Size: DefaultPageSize,
	}
}

// Validate checks whether the request parameters are inside their allowed ranges.
// Invalid parameters are rejected, never clamped.
func (req Request) Validate() *ValidationError {
	if req.Page < 1 {
		return &ValidationError{Parameter: "page", Value: req.Page, Min: 1, Max: -1}
	}
	if req.Size < 1 || req.Size > MaxPageSize {
		return &ValidationError{Parameter: "size", Value: req.Size, Min: 1, Max: MaxPageSize}
	}
	return nil
}

// Offset returns the amount of records to skip before the requested window begins
func (req Request) Offset() uint64 {
	return uint64(req.Page-1) * uint64(req.Size)
}

// ValidationError represents an out-of-range pagination parameter.
// It is always raised before the underlying source is queried.
type ValidationError struct {
	Parameter string
	Value     int
	Min       int
	Max       int
}

func (err *ValidationError) Error() string {
	if err.Max < 0 {
		return fmt.Sprintf("pagination parameter '%s' is out of range (%d [given] < %d [min])", err.Parameter, err.Value, err.Min)
	}
	return fmt.Sprintf("pagination parameter '%s' is out of range (%d [given], allowed range [%d, %d])", err.Parameter, err.Value, err.Min, err.Max)
}

// Page represents a single window of results together with its count metadata.
// It is the wire-level response shape of every listing endpoint.
type Page[T any] struct {
	Items      []T    `json:"items"`
	TotalCount uint64 `json:"totalCount"`
	PageNumber int    `json:"pageNumber"`
	PageSize   int    `json:"pageSize"`
	TotalPages uint64 `json:"totalPages"`
}

// Source represents the store capability a pagination request is executed against.
// A source is bound to a fixed filter predicate; both queries evaluate the same one.
type Source[T any] interface {
	// Count returns the total amount of records matching the source's filter,
	// independent of any windowing
	Count(ctx context.Context) (uint64, error)

	// Fetch returns up to limit matching records after skipping offset records,
	// ordered by a stable, deterministic key
	Fetch(ctx context.Context, offset, limit uint64) ([]T, error)
}

// Snapshotter is an optional extension of Source for stores that can serve both
// the count and the fetch query from a single consistent snapshot.
// Paginate uses it whenever the given source implements it.
type Snapshotter[T any] interface {
	Source[T]

	// Snapshot runs fn against a source view that is isolated from concurrent writes
	Snapshot(ctx context.Context, fn func(src Source[T]) error) error
}

// Paginate executes a pagination request against the given source.
//
// The count and fetch queries are two independent reads. Unless the source
// implements Snapshotter, writes happening between them may leave the total
// count and the returned window mutually inconsistent; this is a documented
// property of the contract, not something Paginate masks.
func Paginate[T any](ctx context.Context, src Source[T], req Request) (*Page[T], error) {
	// Reject invalid window parameters before touching the source
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if snapshotter, ok := src.(Snapshotter[T]); ok {
		var page *Page[T]
		err := snapshotter.Snapshot(ctx, func(isolated Source[T]) error {
			var err error
			page, err = paginate(ctx, isolated, req)
			return err
		})
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	return paginate(ctx, src, req)
}

func paginate[T any](ctx context.Context, src Source[T], req Request) (*Page[T], error) {
	totalCount, err := src.Count(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{
		Items:      []T{},
		TotalCount: totalCount,
		PageNumber: req.Page,
		PageSize:   req.Size,
		TotalPages: totalPages(totalCount, req.Size),
	}

	// A window that starts beyond the last record is empty, not an error.
	// The fetch query is skipped as it could not return anything.
	offset := req.Offset()
	if totalCount == 0 || offset >= totalCount {
		return page, nil
	}

	items, err := src.Fetch(ctx, offset, uint64(req.Size))
	if err != nil {
		return nil, err
	}
	page.Items = items

	return page, nil
}

func totalPages(totalCount uint64, size int) uint64 {
	if totalCount == 0 {
		return 0
	}
	return (totalCount + uint64(size) - 1) / uint64(size)
}
