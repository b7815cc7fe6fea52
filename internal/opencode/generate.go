package opencode

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ManagedSubdirs are replaced wholesale in the output directory; anything
// else under it is left alone.
var ManagedSubdirs = []string{"agents", "commands", "skills"}

var skipTopLevel = map[string]bool{
	".claude-plugin": true,
	"README.md":      true,
}

// Options configures Generate
type Options struct {
	Source string
	Output string
	DryRun bool

	// Out receives the dry-run plan; nil discards it
	Out io.Writer
	// Logger records skipped and unsafe paths; nil means no logging
	Logger *zap.Logger
}

// Counts summarises a generation run
type Counts struct {
	Commands int
	Agents   int
	Skills   int
	Copied   int
	Skipped  int
}

func (c Counts) String() string {
	return fmt.Sprintf("%d commands, %d agents, %d skills, %d copied, %d skipped",
		c.Commands, c.Agents, c.Skills, c.Copied, c.Skipped)
}

func (c *Counts) add(kind Kind) {
	switch kind {
	case KindCommands:
		c.Commands++
	case KindAgents:
		c.Agents++
	case KindSkills:
		c.Skills++
	case KindCopy:
		c.Copied++
	}
}

// KindFor decides how the file at rel (relative to the source root) is
// handled. ok is false for files that are skipped.
func KindFor(rel string) (kind Kind, ok bool) {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	name := parts[len(parts)-1]

	if skipTopLevel[parts[0]] || name == ".DS_Store" || strings.HasPrefix(name, ".") {
		return "", false
	}

	isMarkdown := filepath.Ext(name) == ".md"
	switch parts[0] {
	case "commands":
		return KindCommands, isMarkdown
	case "agents":
		return KindAgents, isMarkdown
	case "skills":
		if name == "SKILL.md" {
			return KindSkills, true
		}
		// Assets and scripts ship with the skill unchanged
		return KindCopy, true
	default:
		return "", false
	}
}

// DestPath maps a source-relative path to its output-relative path.
// Nested commands (commands/fly/x.md) are flattened to commands/x.md.
func DestPath(rel string, kind Kind) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if kind == KindCommands && len(parts) > 2 {
		return filepath.Join("commands", parts[len(parts)-1])
	}
	return filepath.FromSlash(rel)
}

// Generate transforms the marketplace tree at opts.Source into opts.Output.
// Output is staged next to the destination and each managed subdirectory is
// swapped in at the end.
func Generate(opts Options) (Counts, error) {
	var counts Counts

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	info, err := os.Stat(opts.Source)
	if err != nil || !info.IsDir() {
		return counts, fmt.Errorf("source %q not found", opts.Source)
	}

	sourceRoot, err := filepath.EvalSymlinks(opts.Source)
	if err != nil {
		return counts, fmt.Errorf("failed to resolve source: %w", err)
	}

	output := filepath.Clean(opts.Output)
	staging := filepath.Join(filepath.Dir(output), "."+filepath.Base(output)+".tmp")
	if !opts.DryRun {
		if err := os.RemoveAll(staging); err != nil {
			return counts, fmt.Errorf("failed to clear staging directory: %w", err)
		}
	}

	err = filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		if !isSafePath(path, d, sourceRoot) {
			logger.Warn("skipping unsafe path", zap.String("path", path))
			counts.Skipped++
			return nil
		}

		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return err
		}

		kind, ok := KindFor(rel)
		if !ok {
			logger.Debug("skipping file", zap.String("path", rel))
			counts.Skipped++
			return nil
		}

		destRel := DestPath(rel, kind)
		if opts.DryRun {
			action := "copy"
			if kind != KindCopy {
				action = fmt.Sprintf("transform (%s)", kind)
			}
			fmt.Fprintf(out, "%s -> %s [%s]\n", rel, destRel, action)
			counts.add(kind)
			return nil
		}

		dest := filepath.Join(staging, destRel)
		if kind == KindCopy {
			err = copyFile(path, dest)
		} else {
			err = transformFile(path, dest, kind)
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", destRel, err)
		}
		counts.add(kind)
		return nil
	})
	if err != nil {
		if !opts.DryRun {
			_ = os.RemoveAll(staging)
		}
		return counts, err
	}

	if opts.DryRun {
		return counts, nil
	}

	if err := swapManaged(staging, output); err != nil {
		return counts, err
	}
	return counts, nil
}

// isSafePath rejects symlinks and anything resolving outside the source root
func isSafePath(path string, d fs.DirEntry, root string) bool {
	if d.Type()&fs.ModeSymlink != 0 {
		return false
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func transformFile(src, dest string, kind Kind) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return atomicWrite(dest, []byte(TransformContent(string(data), kind)))
}

// atomicWrite writes via a temp file in the destination directory and renames it into place
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp_")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// copyFile copies content, permissions and modification time
func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	outFile, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, in); err != nil {
		outFile.Close()
		return err
	}
	if err := outFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dest, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}

// swapManaged replaces each managed subdirectory of output with its staged
// counterpart, then removes the staging directory.
func swapManaged(staging, output string) error {
	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, subdir := range ManagedSubdirs {
		staged := filepath.Join(staging, subdir)
		if _, err := os.Stat(staged); errors.Is(err, os.ErrNotExist) {
			continue
		}

		final := filepath.Join(output, subdir)
		if err := os.RemoveAll(final); err != nil {
			return fmt.Errorf("failed to remove %s: %w", final, err)
		}
		if err := os.Rename(staged, final); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", subdir, err)
		}
	}

	return os.RemoveAll(staging)
}
