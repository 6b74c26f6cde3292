// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worklist reads the list of documents to convert from an INI file.
//
// The file must contain a [FILES] section. Each key in it names one
// document; values that are empty or start with '#' are treated as
// disabled entries and skipped:
//
//	[FILES]
//	file1 = report.docx
//	file2 = "scans/manual.pdf"
//	file3 = # old.pdf
package worklist

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/pdiddy/docmark/pkg/types"
)

// Section is the INI section holding the document entries.
const Section = "FILES"

// DefaultFile is the worklist file name looked up in the input directory.
const DefaultFile = "config.ini"

// Load reads the worklist at path. A missing file yields a
// types.KindConfigMissing error; a file that cannot be parsed or lacks the
// [FILES] section yields types.KindConfigMalformed. An empty list is not
// an error.
func Load(path string) ([]types.WorkItem, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, types.NewError(types.KindConfigMissing, path, errors.New("configuration file not found"))
		}
		return nil, types.NewError(types.KindConfigMissing, path, err)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		// "file3 = # old.pdf" must keep its value so it can be recognised
		// as a disabled entry rather than an empty one.
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, types.NewError(types.KindConfigMalformed, path, err)
	}

	sec, err := cfg.GetSection(Section)
	if err != nil {
		return nil, types.NewError(types.KindConfigMalformed, path,
			fmt.Errorf("config file must contain a [%s] section", Section))
	}

	var items []types.WorkItem
	for _, key := range sec.Keys() {
		value, ok := entryValue(key.Value())
		if !ok {
			continue
		}
		items = append(items, types.NewWorkItem(key.Name(), value))
	}
	return items, nil
}

// entryValue normalises a raw value and reports whether it is an active
// entry.
func entryValue(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || strings.HasPrefix(v, "#") {
		return "", false
	}
	v = strings.TrimSpace(strings.Trim(v, `"`))
	if v == "" {
		return "", false
	}
	return v, true
}
