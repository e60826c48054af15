package anki

import (
	"regexp"
	"strings"
)

var (
	soundRef = regexp.MustCompile(`\[sound:([^\]]+)\]`)
	imageRef = regexp.MustCompile(`<img[^>]*\ssrc=['"]([^'"]+)['"]`)
)

// MediaFiles returns the local filenames referenced by a field value.
// Remote URLs are skipped.
func MediaFiles(value string) []string {
	var files []string
	for _, re := range []*regexp.Regexp{soundRef, imageRef} {
		for _, m := range re.FindAllStringSubmatch(value, -1) {
			if strings.Contains(m[1], "://") {
				continue
			}
			files = append(files, m[1])
		}
	}
	return files
}
