package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agusespa/testimpact/internal/types"
)

// ChangeSet is the analyzable part of a diff plus the raw diff text.
type ChangeSet struct {
	Files []ChangedFile
	Diff  string
}

func (c *ChangeSet) Paths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// ChangeSource lists changed files and serves their snapshots. Snapshot
// must be called after Changes.
type ChangeSource interface {
	Changes(ctx context.Context) (*ChangeSet, error)
	Snapshot(ctx context.Context, filePath string) (types.SourceSnapshot, error)
	TestFiles(ctx context.Context) ([]string, error)
}

var diffArgs = []string{"diff", "--no-color", "--no-ext-diff", "--no-renames"}

// selectFiles drops removed files and everything the filter does not treat
// as source, and remembers which files were added.
func selectFiles(files []ChangedFile, filter FileFilter, added map[string]bool) []ChangedFile {
	selected := []ChangedFile{}
	seen := make(map[string]bool)
	for _, f := range files {
		if f.Kind == types.FileRemoved || !filter.IsSource(f.Path) || seen[f.Path] {
			continue
		}
		seen[f.Path] = true
		if f.Kind == types.FileAdded {
			added[f.Path] = true
		}
		selected = append(selected, f)
	}
	return selected
}

// WorkingTree compares HEAD with the files on disk, including untracked files.
type WorkingTree struct {
	root   string
	runner Runner
	blobs  *BlobStore
	filter FileFilter

	head  string
	added map[string]bool
}

func NewWorkingTree(root string, runner Runner, blobs *BlobStore, filter FileFilter) *WorkingTree {
	return &WorkingTree{
		root:   root,
		runner: runner,
		blobs:  blobs,
		filter: filter,
		added:  make(map[string]bool),
	}
}

func (w *WorkingTree) Changes(ctx context.Context) (*ChangeSet, error) {
	w.added = make(map[string]bool)

	head, err := ResolveCommit(ctx, w.runner, "HEAD")
	if err != nil {
		// No commits yet: every tracked or untracked file is new.
		w.head = ""
		out, err := w.runner.Run(ctx, "ls-files", "-z", "--cached", "--others", "--exclude-standard")
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		var files []ChangedFile
		for _, p := range ParseFileList(out) {
			files = append(files, ChangedFile{Path: p, Kind: types.FileAdded})
		}
		return &ChangeSet{Files: selectFiles(files, w.filter, w.added)}, nil
	}
	w.head = head

	diff, err := w.runner.Run(ctx, append(append([]string{}, diffArgs...), head)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get working tree diff: %w", err)
	}

	files, err := ParseChangedFiles(diff)
	if err != nil {
		return nil, err
	}

	untracked, err := w.runner.Run(ctx, "ls-files", "-z", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}
	for _, p := range ParseFileList(untracked) {
		files = append(files, ChangedFile{Path: p, Kind: types.FileAdded})
	}

	return &ChangeSet{Files: selectFiles(files, w.filter, w.added), Diff: diff}, nil
}

func (w *WorkingTree) Snapshot(ctx context.Context, filePath string) (types.SourceSnapshot, error) {
	snapshot := types.SourceSnapshot{FilePath: filePath}

	data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(filePath)))
	if err != nil {
		return snapshot, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	snapshot.NewContent = string(data)

	if w.head == "" || w.added[filePath] {
		return snapshot, nil
	}

	old, err := w.blobs.Show(ctx, w.head, filePath)
	if err != nil {
		return snapshot, err
	}
	snapshot.OldContent = old

	return snapshot, nil
}

func (w *WorkingTree) TestFiles(ctx context.Context) ([]string, error) {
	out, err := w.runner.Run(ctx, "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return filterTests(ParseFileList(out), w.filter), nil
}

// CommitRange compares two commits.
type CommitRange struct {
	runner Runner
	blobs  *BlobStore
	filter FileFilter

	Base string
	Head string

	added map[string]bool
}

// NewCommitRange resolves both revisions to commit SHAs.
func NewCommitRange(ctx context.Context, runner Runner, blobs *BlobStore, filter FileFilter, baseRev, headRev string) (*CommitRange, error) {
	base, err := ResolveCommit(ctx, runner, baseRev)
	if err != nil {
		return nil, err
	}
	head, err := ResolveCommit(ctx, runner, headRev)
	if err != nil {
		return nil, err
	}

	return &CommitRange{
		runner: runner,
		blobs:  blobs,
		filter: filter,
		Base:   base,
		Head:   head,
		added:  make(map[string]bool),
	}, nil
}

func (c *CommitRange) Changes(ctx context.Context) (*ChangeSet, error) {
	c.added = make(map[string]bool)

	diff, err := c.runner.Run(ctx, append(append([]string{}, diffArgs...), c.Base, c.Head)...)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", shortSHA(c.Base), shortSHA(c.Head), err)
	}

	files, err := ParseChangedFiles(diff)
	if err != nil {
		return nil, err
	}

	return &ChangeSet{Files: selectFiles(files, c.filter, c.added), Diff: diff}, nil
}

func (c *CommitRange) Snapshot(ctx context.Context, filePath string) (types.SourceSnapshot, error) {
	snapshot := types.SourceSnapshot{FilePath: filePath}

	newContent, err := c.blobs.Show(ctx, c.Head, filePath)
	if err != nil {
		return snapshot, err
	}
	snapshot.NewContent = newContent

	if c.added[filePath] {
		return snapshot, nil
	}

	oldContent, err := c.blobs.Show(ctx, c.Base, filePath)
	if err != nil {
		return snapshot, err
	}
	snapshot.OldContent = oldContent

	return snapshot, nil
}

func (c *CommitRange) TestFiles(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, "ls-tree", "-r", "-z", "--name-only", c.Head)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", shortSHA(c.Head), err)
	}
	return filterTests(ParseFileList(out), c.filter), nil
}

func filterTests(paths []string, filter FileFilter) []string {
	tests := []string{}
	for _, p := range paths {
		if filter.IsTest(p) {
			tests = append(tests, p)
		}
	}
	return tests
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
