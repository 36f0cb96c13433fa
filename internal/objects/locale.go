package objects

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type classText struct {
	Descriptions map[string]string `json:"descriptions"`
	Actions      map[string]string `json:"actions"`
}

// Locale holds the localized object text, keyed by object class.
type Locale struct {
	name    string
	classes map[string]classText
}

// LoadLocale reads <dir>/objects/<locale>.json.
func LoadLocale(dir, locale string) (*Locale, error) {
	path := filepath.Join(dir, "objects", locale+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if avail, lerr := Locales(dir); lerr == nil && len(avail) > 0 {
			return nil, fmt.Errorf("failed to read object text %s (available: %s): %w",
				path, strings.Join(avail, ", "), err)
		}
		return nil, fmt.Errorf("failed to read object text %s: %w", path, err)
	}
	l, err := ParseLocale(locale, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse object text %s: %w", path, err)
	}
	return l, nil
}

// Locales lists the locale names found in <dir>/objects.
func Locales(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "objects"))
	if err != nil {
		return nil, fmt.Errorf("failed to read text directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// ParseLocale decodes locale JSON.
func ParseLocale(locale string, data []byte) (*Locale, error) {
	var classes map[string]classText
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, err
	}
	return &Locale{name: locale, classes: classes}, nil
}

// Name returns the locale name, such as "eng".
func (l *Locale) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Description returns the description text of class under key. A missing
// description is an error: objects cannot be built without one.
func (l *Locale) Description(class, key string) (string, error) {
	if l == nil {
		return "", fmt.Errorf("no object text loaded for %s", class)
	}
	text, ok := l.classes[class].Descriptions[key]
	if !ok {
		return "", fmt.Errorf("no description %q for %s in locale %q", key, class, l.name)
	}
	return text, nil
}

// Action returns the action text of class under key, or key itself when the
// locale has no entry.
func (l *Locale) Action(class, key string) string {
	if l == nil {
		return key
	}
	if text, ok := l.classes[class].Actions[key]; ok {
		return text
	}
	return key
}
