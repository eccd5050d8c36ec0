package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PageKey returns the "source:page" prefix shared by all chunks of a page.
func PageKey(source string, page int) string {
	return source + ":" + strconv.Itoa(page)
}

// NewChunkID builds the composite "source:page:index" identity.
func NewChunkID(source string, page, index int) string {
	return PageKey(source, page) + ":" + strconv.Itoa(index)
}

// ParseChunkID splits a ChunkID back into its parts.
// Source names may themselves contain colons, so the split uses the last two.
func ParseChunkID(id string) (source string, page, index int, err error) {
	last := strings.LastIndex(id, ":")
	if last <= 0 {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q", ErrInvalidInput, id)
	}
	mid := strings.LastIndex(id[:last], ":")
	if mid <= 0 {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q", ErrInvalidInput, id)
	}

	page, err = strconv.Atoi(id[mid+1 : last])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q: page: %w", ErrInvalidInput, id, err)
	}
	index, err = strconv.Atoi(id[last+1:])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: chunk id %q: index: %w", ErrInvalidInput, id, err)
	}
	return id[:mid], page, index, nil
}
