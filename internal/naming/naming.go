package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"m4bforge/internal/metadata"
	"m4bforge/internal/pipeline"
	"m4bforge/internal/textutil"
)

// DefaultSplitTemplate names extracted chapter files when the caller does
// not supply a template.
const DefaultSplitTemplate = "{chapter_num:02d} - {chapter_title}.{ext}"

// Context supplies the values placeholders resolve against.
type Context struct {
	Book         metadata.Book
	ChapterNum   int
	ChapterTitle string
	SourcePath   string
	Duration     time.Duration
	Ext          string
}

var placeholderRE = regexp.MustCompile(`\{[^{}]*\}`)
var paddingRE = regexp.MustCompile(`^(0?)([0-9]+)d$`)

// Resolve substitutes ctx into template and returns a sanitized relative
// path. Slashes written in the template itself delimit directories; slashes
// arriving through substituted values are neutralized per segment. An
// unrecognized placeholder name fails with the template error marker.
func Resolve(template string, ctx Context) (string, error) {
	segments := strings.Split(template, "/")
	resolved := make([]string, 0, len(segments))

	for _, segment := range segments {
		var substErr error
		expanded := placeholderRE.ReplaceAllStringFunc(segment, func(token string) string {
			value, err := expand(token, ctx)
			if err != nil && substErr == nil {
				substErr = err
			}
			return value
		})
		if substErr != nil {
			return "", substErr
		}
		cleaned := textutil.SanitizeFileName(expanded)
		if cleaned == "" {
			continue
		}
		resolved = append(resolved, cleaned)
	}

	if len(resolved) == 0 {
		return "", pipeline.Wrapf(pipeline.ErrTemplate, "resolve", template, "resolves to an empty path")
	}
	return filepath.Join(resolved...), nil
}

func expand(token string, ctx Context) (string, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
	name, padding, _ := strings.Cut(body, ":")
	name = strings.TrimSpace(name)

	if value, ok := stringField(name, ctx); ok {
		if padding != "" {
			return "", pipeline.Wrapf(pipeline.ErrTemplate, "resolve", token, "padding not supported for %q", name)
		}
		if strings.TrimSpace(value) == "" {
			value = "Unknown"
		}
		return value, nil
	}

	if value, ok := numericField(name, ctx); ok {
		if padding == "" {
			return strconv.Itoa(value), nil
		}
		match := paddingRE.FindStringSubmatch(padding)
		if match == nil {
			return "", pipeline.Wrapf(pipeline.ErrTemplate, "resolve", token, "bad padding spec %q", padding)
		}
		width, _ := strconv.Atoi(match[2])
		if match[1] == "0" {
			return fmt.Sprintf("%0*d", width, value), nil
		}
		return fmt.Sprintf("%*d", width, value), nil
	}

	return "", pipeline.Wrapf(pipeline.ErrTemplate, "resolve", token, "unknown placeholder %q", name)
}

func stringField(name string, ctx Context) (string, bool) {
	switch name {
	case "title":
		return ctx.Book.Title, true
	case "author":
		return ctx.Book.Author, true
	case "narrator":
		return ctx.Book.Narrator, true
	case "genre":
		return ctx.Book.Genre, true
	case "chapter_title":
		return ctx.ChapterTitle, true
	case "filename":
		base := filepath.Base(ctx.SourcePath)
		return strings.TrimSuffix(base, filepath.Ext(base)), true
	case "duration_human":
		return metadata.FormatDuration(ctx.Duration), true
	case "ext":
		return strings.TrimPrefix(ctx.Ext, "."), true
	}
	return "", false
}

func numericField(name string, ctx Context) (int, bool) {
	switch name {
	case "chapter_num":
		return ctx.ChapterNum, true
	case "year":
		return ctx.Book.Year, true
	case "duration":
		return int(ctx.Duration.Round(time.Second) / time.Second), true
	}
	return 0, false
}
