package build

import (
	"os"
	"strconv"
	"strings"

	"github.com/Mshivam2409/rustduino/internal/git"
)

// SourceKind says where a sidebar declaration is read from.
type SourceKind string

const (
	SourceFile     SourceKind = "file"
	SourceGit      SourceKind = "git"
	SourceRevision SourceKind = "revision"
)

// Source identifies one sidebar declaration. Number 0 selects the latest
// stored revision.
type Source struct {
	Kind   SourceKind
	Path   string
	Ref    string
	Number int
}

// FileSource returns a source for a local file.
func FileSource(path string) Source { return Source{Kind: SourceFile, Path: path} }

// ParseSource interprets a command-line source argument:
//
//	sidebars.yaml          local file
//	HEAD~1:sidebars.yaml   file at a git revision
//	@latest, @3            stored revision
//
// An existing local file always wins over the git form.
func ParseSource(raw string) (Source, error) {
	if rest, ok := strings.CutPrefix(raw, "@"); ok {
		if rest == "latest" || rest == "" {
			return Source{Kind: SourceRevision}, nil
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return Source{}, ErrInvalidRevision.WithContext("source", raw)
		}
		return Source{Kind: SourceRevision, Number: n}, nil
	}
	if _, err := os.Stat(raw); err == nil {
		return FileSource(raw), nil
	}
	if ref, file, ok := git.SplitRevPath(raw); ok {
		return Source{Kind: SourceGit, Ref: ref, Path: file}, nil
	}
	return FileSource(raw), nil
}

func (s Source) String() string {
	switch s.Kind {
	case SourceGit:
		return s.Ref + ":" + s.Path
	case SourceRevision:
		if s.Number == 0 {
			return "@latest"
		}
		return "@" + strconv.Itoa(s.Number)
	default:
		return s.Path
	}
}
