package library

import "go.uber.org/zap"

// LibraryBuilderOption is a functional option applied to a library during construction via NewLibrary.
type LibraryBuilderOption func(*libraryImpl)

// WithFilter sets the initial filter query.
//
// Parameters:
//   - query: the substring titles must contain
//
// Returns:
//   - LibraryBuilderOption: option function to apply
func WithFilter(query string) LibraryBuilderOption {
	return func(l *libraryImpl) {
		l.filter = query
	}
}

// WithSelectionCallback sets the function run once the view has settled on a newly selected movie.
//
// Parameters:
//   - callback: function receiving the row and movie
//
// Returns:
//   - LibraryBuilderOption: option function to apply
func WithSelectionCallback(callback func(row int, m Movie)) LibraryBuilderOption {
	return func(l *libraryImpl) {
		l.onSelect = callback
	}
}

// WithLogger sets the logger for selection and filter messages.
func WithLogger(logger *zap.Logger) LibraryBuilderOption {
	return func(l *libraryImpl) {
		if logger != nil {
			l.logger = logger.Named("library")
		}
	}
}
