// Package fonts provides the embedded Go font family for text measurement.
//
// The fonts ship with golang.org/x/image, so they are available without
// external files. Each face is parsed once on first access.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Family names accepted by Parse.
const (
	Regular = "Go"
	Bold    = "Go Bold"
	Italic  = "Go Italic"
	Mono    = "Go Mono"
)

// Default is the family used when none is configured.
const Default = Regular

// FallbackFontFamily is the CSS font-family list renderers should emit so that
// text drawn by a browser stays close to the measured metrics.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

type entry struct {
	data []byte
	once sync.Once
	font *opentype.Font
	err  error
}

var families = map[string]*entry{
	strings.ToLower(Regular): {data: goregular.TTF},
	strings.ToLower(Bold):    {data: gobold.TTF},
	strings.ToLower(Italic):  {data: goitalic.TTF},
	strings.ToLower(Mono):    {data: gomono.TTF},
}

// Families lists the available family names.
func Families() []string { return []string{Regular, Bold, Italic, Mono} }

// Known reports whether family names an embedded font.
func Known(family string) bool {
	_, ok := families[normalize(family)]
	return ok
}

// Parse returns the parsed font for family. An empty family selects Default.
func Parse(family string) (*opentype.Font, error) {
	e, ok := families[normalize(family)]
	if !ok {
		return nil, fmt.Errorf("unknown font family %q (must be one of: %s)", family, strings.Join(Families(), ", "))
	}
	e.once.Do(func() {
		e.font, e.err = opentype.Parse(e.data)
	})
	return e.font, e.err
}

func normalize(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	if f == "" {
		return strings.ToLower(Default)
	}
	return f
}
