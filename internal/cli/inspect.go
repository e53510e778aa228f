package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/testimpact/internal/output"
	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/topsort"
	"github.com/AndreyAkinshin/testimpact/internal/vcs"
)

func (a *app) newPackagesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List workspace packages in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd.Context(), cmd, opts, nil)
			if err != nil {
				return s.fail(err)
			}
			return s.fail(a.printPackages(s))
		},
	}
}

// packageRow is one line of `testimpact packages`.
type packageRow struct {
	Name         string   `json:"name"`
	Path         string   `json:"path"`
	Dependencies []string `json:"dependencies"`
}

func (a *app) printPackages(s *session) error {
	internal := s.graph.InternalDependencies()

	// dev-dependency cycles are legal in Cargo; fall back to manifest order
	order := s.graph.Names()
	if err := topsort.Validate(topsort.Graph(internal)); err != nil {
		s.logger.Warn("packages are not topologically sortable, keeping workspace order", "error", err)
	} else if sorted, err := topsort.Sort(topsort.Graph(internal), order); err == nil {
		order = sorted
	}

	rows := make([]packageRow, 0, len(order))
	for _, name := range order {
		p, _ := s.graph.Package(name)
		rows = append(rows, packageRow{
			Name:         name,
			Path:         relativePath(s.root, p.Root),
			Dependencies: internal[name],
		})
	}

	if s.settings.Format == report.FormatJSON {
		enc := json.NewEncoder(a.stdout)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	w := output.NewWithWriters(a.stdout, a.stderr, output.IsTerminal(a.stdout))
	title := cases.Title(language.English)
	w.Println("%s workspace at %s", title.String(string(s.ecosystem)), s.root)
	w.Println("")

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{row.Name, row.Path, strings.Join(row.Dependencies, ", ")})
	}
	w.Table([]string{"PACKAGE", "PATH", "DEPENDS ON"}, table)
	return nil
}

func (a *app) newChangedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "changed",
		Short: "List changed files and the packages that own them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.openSession(ctx, cmd, opts, nil)
			if err != nil {
				return s.fail(err)
			}

			files, err := s.changes(ctx, opts)
			if err != nil {
				return s.fail(err)
			}
			ownership, err := s.ownership()
			if err != nil {
				return s.fail(err)
			}
			return s.fail(a.printChanged(s, files, ownership.Owner))
		},
	}
}

// changedRow is one line of `testimpact changed`.
type changedRow struct {
	Path       string         `json:"path"`
	OldPath    string         `json:"old_path,omitempty"`
	ChangeType vcs.ChangeType `json:"change_type"`
	FileType   vcs.FileType   `json:"file_type"`
	Package    string         `json:"package,omitempty"`
}

func (a *app) printChanged(s *session, files []vcs.ChangedFile, owner func(string) (string, bool)) error {
	rows := make([]changedRow, 0, len(files))
	for _, f := range files {
		row := changedRow{
			Path:       relativePath(s.root, f.CurrentPath),
			ChangeType: f.ChangeType,
			FileType:   f.FileType,
		}
		if f.OldPath != "" {
			row.OldPath = relativePath(s.root, f.OldPath)
		}
		for _, path := range f.Paths() {
			if name, ok := owner(path); ok {
				row.Package = name
				break
			}
		}
		rows = append(rows, row)
	}

	if s.settings.Format == report.FormatJSON {
		enc := json.NewEncoder(a.stdout)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	w := output.NewWithWriters(a.stdout, a.stderr, output.IsTerminal(a.stdout))
	if len(rows) == 0 {
		w.Println("no changed files")
		return nil
	}

	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		path := row.Path
		if row.OldPath != "" {
			path = row.OldPath + " -> " + row.Path
		}
		pkg := row.Package
		if pkg == "" {
			pkg = "-"
		}
		table = append(table, []string{row.ChangeType.String(), path, pkg})
	}
	w.Table([]string{"CHANGE", "PATH", "PACKAGE"}, table)
	return nil
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
