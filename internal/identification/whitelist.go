package identification

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"comicrenamer/internal/services"
	"comicrenamer/internal/textutil"
)

// Whitelist is a read-only set of preferred publisher names.
type Whitelist struct {
	names map[string]struct{}
}

// NewWhitelist builds a whitelist from the supplied names.
func NewWhitelist(names ...string) Whitelist {
	w := Whitelist{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if normalized := textutil.NormalizeName(name); normalized != "" {
			w.names[normalized] = struct{}{}
		}
	}
	return w
}

// Contains reports whether name is whitelisted.
func (w Whitelist) Contains(name string) bool {
	if len(w.names) == 0 {
		return false
	}
	_, ok := w.names[textutil.NormalizeName(name)]
	return ok
}

// Len returns the number of names in the whitelist.
func (w Whitelist) Len() int {
	return len(w.names)
}

// LoadWhitelist reads a JSON array of publisher names from path. An object
// with a "publishers" array is accepted as well.
func LoadWhitelist(path string, logger *slog.Logger) (Whitelist, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Whitelist{}, services.Wrap(services.ErrConfiguration, "whitelist", "load", "whitelist path is empty", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Whitelist{}, services.Wrap(services.ErrConfiguration, "whitelist", "load", fmt.Sprintf("whitelist %s not found", path), err)
		}
		return Whitelist{}, services.Wrap(services.ErrConfiguration, "whitelist", "load", "read whitelist", err)
	}
	names, err := parseWhitelist(data)
	if err != nil {
		return Whitelist{}, services.Wrap(services.ErrConfiguration, "whitelist", "parse", path, err)
	}
	w := NewWhitelist(names...)
	if logger != nil {
		logger.Info("loaded publisher whitelist", slog.String("path", path), slog.Int("count", w.Len()))
	}
	return w, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

func parseWhitelist(data []byte) ([]string, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(data) == 0 {
		return nil, nil
	}
	var names []string
	if data[0] == '{' {
		var wrapper struct {
			Publishers []string `json:"publishers"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		names = wrapper.Publishers
	} else if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}
