package vcs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// parseDiff extracts changed paths from `git diff -M` output produced
// with the a/ and b/ prefixes.
func parseDiff(out []byte) ([]entry, error) {
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff(out)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	entries := make([]entry, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		e, err := entryFromFileDiff(fd)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func entryFromFileDiff(fd *diff.FileDiff) (entry, error) {
	e := entry{change: ChangeModified}

	var (
		mode               string
		renameFrom, rename string
		copyTo             string
		headerPath         string
	)

	for _, line := range fd.Extended {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			headerPath = pathFromGitHeader(strings.TrimPrefix(line, "diff --git "))
		case strings.HasPrefix(line, "new file mode "):
			e.change = ChangeAdded
			mode = strings.TrimPrefix(line, "new file mode ")
		case strings.HasPrefix(line, "deleted file mode "):
			e.change = ChangeRemoved
			mode = strings.TrimPrefix(line, "deleted file mode ")
		case strings.HasPrefix(line, "new mode "):
			mode = strings.TrimPrefix(line, "new mode ")
		case strings.HasPrefix(line, "rename from "):
			renameFrom = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			rename = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "copy to "):
			copyTo = strings.TrimPrefix(line, "copy to ")
		case strings.HasPrefix(line, "index "):
			// index <old>..<new> [<mode>]
			if fields := strings.Fields(line); len(fields) == 3 && mode == "" {
				mode = fields[2]
			}
		}
	}

	switch {
	case rename != "":
		e.path = rename
		e.oldPath = renameFrom
	case copyTo != "":
		e.path = copyTo
	default:
		e.path = nameFromDiff(fd)
		if e.path == "" {
			e.path = headerPath
		}
	}

	if e.path == "" {
		return entry{}, fmt.Errorf("diff entry without a path: %q", fd.Extended)
	}

	switch {
	case mode != "":
		e.fileType = fileTypeFromMode(mode)
	case rename != "" || copyTo != "":
		// exact renames have no index line; rename detection only pairs blobs
		e.fileType = FileTypeFile
	default:
		e.fileType = FileTypeOther
	}
	return e, nil
}

// nameFromDiff returns the surviving side of the ---/+++ pair.
func nameFromDiff(fd *diff.FileDiff) string {
	if name := strings.TrimPrefix(fd.NewName, "b/"); fd.NewName != "" && fd.NewName != devNull {
		return name
	}
	if name := strings.TrimPrefix(fd.OrigName, "a/"); fd.OrigName != "" && fd.OrigName != devNull {
		return name
	}
	return ""
}

// pathFromGitHeader recovers the path from "a/<p> b/<p>" when both sides
// match, which holds for every entry that is not a rename or copy.
func pathFromGitHeader(header string) string {
	if !strings.HasPrefix(header, "a/") || len(header) < len("a/ b/")+2 {
		return ""
	}
	n := (len(header) - len("a/ b/")) / 2
	src, dst := header[2:2+n], header[2+n:]
	if dst != " b/"+src {
		return ""
	}
	return src
}
