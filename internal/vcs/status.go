package vcs

import (
	"bytes"
	"fmt"
	"strings"
)

// entry is a parsed change with repository-relative slash paths.
type entry struct {
	path      string
	oldPath   string
	change    ChangeType
	fileType  FileType
	untracked bool
}

// parseStatus parses `git status --porcelain=v2 -z` output.
//
// Record formats:
//
//	1 XY sub mH mI mW hH hI path
//	2 XY sub mH mI mW hH hI Xscore path NUL origPath
//	u XY sub m1 m2 m3 mW h1 h2 h3 path
//	? path
//	! path
func parseStatus(out []byte) ([]entry, error) {
	records := strings.Split(string(bytes.TrimRight(out, "\x00")), "\x00")

	var entries []entry
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if rec == "" {
			continue
		}

		switch rec[0] {
		case '1':
			fields := strings.SplitN(rec, " ", 9)
			if len(fields) != 9 {
				return nil, fmt.Errorf("malformed status record %q", rec)
			}
			entries = append(entries, entry{
				path:     fields[8],
				change:   changeFromXY(fields[1]),
				fileType: fileTypeFromModes(fields[3], fields[4], fields[5]),
			})

		case '2':
			fields := strings.SplitN(rec, " ", 10)
			if len(fields) != 10 {
				return nil, fmt.Errorf("malformed status record %q", rec)
			}
			if i+1 >= len(records) {
				return nil, fmt.Errorf("status record %q is missing its original path", rec)
			}
			i++
			e := entry{
				path:     fields[9],
				change:   ChangeModified,
				fileType: fileTypeFromModes(fields[3], fields[4], fields[5]),
			}
			// Copies (C) leave the source in place and record no old path.
			if strings.HasPrefix(fields[8], "R") {
				e.oldPath = records[i]
			}
			if strings.Contains(fields[1], "D") {
				e.change = ChangeRemoved
			}
			entries = append(entries, e)

		case 'u':
			fields := strings.SplitN(rec, " ", 11)
			if len(fields) != 11 {
				return nil, fmt.Errorf("malformed status record %q", rec)
			}
			entries = append(entries, entry{
				path:     fields[10],
				change:   ChangeModified,
				fileType: fileTypeFromModes(fields[3], fields[4], fields[5], fields[6]),
			})

		case '?':
			entries = append(entries, entry{
				path:      strings.TrimPrefix(rec, "? "),
				change:    ChangeAdded,
				untracked: true,
			})

		case '!', '#':
			// ignored files and branch headers
		default:
			return nil, fmt.Errorf("unexpected status record %q", rec)
		}
	}

	return entries, nil
}

// changeFromXY maps the two-letter index/worktree status to a ChangeType.
func changeFromXY(xy string) ChangeType {
	switch {
	case strings.Contains(xy, "D"):
		return ChangeRemoved
	case strings.HasPrefix(xy, "A"):
		return ChangeAdded
	default:
		return ChangeModified
	}
}

// fileTypeFromModes picks the first non-zero mode, preferring the
// worktree side. Modes are passed HEAD first, worktree last.
func fileTypeFromModes(modes ...string) FileType {
	for i := len(modes) - 1; i >= 0; i-- {
		if modes[i] != "" && strings.Trim(modes[i], "0") != "" {
			return fileTypeFromMode(modes[i])
		}
	}
	return FileTypeOther
}
