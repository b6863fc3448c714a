package vcs

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/agusespa/testimpact/internal/types"
)

const devNull = "/dev/null"

// ChangedFile is one file entry of a unified diff
type ChangedFile struct {
	Path string
	Kind types.FileChangeKind
}

// ParseChangedFiles lists the files touched by a unified git diff in the
// order they appear.
func ParseChangedFiles(diffContent string) ([]ChangedFile, error) {
	if strings.TrimSpace(diffContent) == "" {
		return []ChangedFile{}, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(diffContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	files := make([]ChangedFile, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		files = append(files, changedFile(fd))
	}
	return files, nil
}

func changedFile(fd *godiff.FileDiff) ChangedFile {
	oldPath := cleanPath(fd.OrigName)
	newPath := cleanPath(fd.NewName)

	switch {
	case oldPath == devNull || oldPath == "" || hasExtended(fd, "new file mode"):
		return ChangedFile{Path: newPath, Kind: types.FileAdded}
	case newPath == devNull || newPath == "" || hasExtended(fd, "deleted file mode"):
		return ChangedFile{Path: oldPath, Kind: types.FileRemoved}
	default:
		return ChangedFile{Path: newPath, Kind: types.FileModified}
	}
}

func hasExtended(fd *godiff.FileDiff, prefix string) bool {
	for _, line := range fd.Extended {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// cleanPath removes the a/ or b/ prefix git puts on diff paths.
func cleanPath(path string) string {
	if path == devNull {
		return path
	}
	if strings.HasPrefix(path, "a/") || strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}
