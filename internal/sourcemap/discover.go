package sourcemap

import (
	"strings"

	"github.com/jymfony/scriba/internal/fs"
	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/logging"
)

const sourceMappingURLPrefix = "sourceMappingURL="

// CommentURL returns the value of the last "sourceMappingURL=" annotation in
// the given text, up to the end of its line.
func CommentURL(contents string) (string, bool) {
	i := strings.LastIndex(contents, sourceMappingURLPrefix)
	if i == -1 {
		return "", false
	}
	rest := contents[i+len(sourceMappingURLPrefix):]
	if end := strings.IndexAny(rest, "\r\n"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

// Discover finds the input source map of a compilation unit and returns its
// JSON text. An inline base64 data URL is preferred. Otherwise the URL is
// resolved as a file next to the input, falling back to "<filename>.map".
// Every failure is silent: the unit is then compiled without an input map.
func Discover(fsys fs.FS, contents string, filename string) (logger.Source, bool) {
	log := logging.For("sourcemap")
	url, hasURL := CommentURL(contents)

	if hasURL {
		if parsed, ok := helpers.ParseDataURL(url); ok && parsed.IsBase64 {
			text, err := parsed.DecodeData()
			if err == nil {
				return logger.Source{PrettyPath: filename, Contents: text}, true
			}
			log.Debug().Err(err).Str("file", filename).Msg("cannot decode inline source map")
		}
	}

	if filename == "" || fsys == nil {
		return logger.Source{}, false
	}

	mapPath := filename + ".map"
	if hasURL {
		if candidate := fsys.Join(fsys.Dir(filename), url); fsys.Exists(candidate) {
			mapPath = candidate
		}
	}

	if !fsys.Exists(mapPath) {
		if hasURL {
			log.Debug().Str("file", filename).Str("url", url).Msg("cannot find input source map")
		}
		return logger.Source{}, false
	}

	text, err := fsys.ReadFile(mapPath)
	if err != nil {
		log.Debug().Err(err).Str("file", mapPath).Msg("cannot read input source map")
		return logger.Source{}, false
	}
	return logger.Source{PrettyPath: mapPath, Contents: text}, true
}
