package pipeline

import (
	"fmt"
	"os"
	"strings"

	"feedjoin/internal"
)

// FeedFile is a feed on disk. Type overrides the file extension for exports
// saved under a name the loaders do not recognise.
type FeedFile struct {
	Path string
	Type string
}

func (f FeedFile) Load() (internal.Table, error) {
	switch t := strings.ToLower(strings.TrimSpace(f.Type)); t {
	case "":
		return LoadFile(f.Path)
	case "text":
		return LoadInput("txt", f.Path)
	default:
		return LoadInput(t, f.Path)
	}
}

// LoadInput reads one feed given either inline text or a path with an
// explicit format, for callers that cannot rely on file extensions.
func LoadInput(inputType string, input string) (internal.Table, error) {
	switch inputType {
	case "text":
		return ParseTable(input), nil
	case "csv", "txt", "xlsx", "html", "eml":
		blob, err := os.ReadFile(input)
		if err != nil {
			return internal.Table{}, err
		}
		return LoadBytes("input."+inputType, blob)
	default:
		return internal.Table{}, fmt.Errorf("%w: input type %s", ErrUnsupportedFormat, inputType)
	}
}
