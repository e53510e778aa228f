package mocks

import (
	"context"
	"sync"

	"github.com/AndreyAkinshin/testimpact/internal/vcs"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// Vcs implements vcs.Vcs with canned answers.
type Vcs struct {
	Root        string
	RootErr     error
	Uncommitted []vcs.ChangedFile
	Between     []vcs.ChangedFile
	ChangesErr  error

	mu   sync.Mutex
	refs [][2]string
}

func (v *Vcs) WorkspaceRoot(context.Context, string) (string, error) {
	if v.RootErr != nil {
		return "", v.RootErr
	}
	return v.Root, nil
}

func (v *Vcs) UncommittedChanges(context.Context, string) ([]vcs.ChangedFile, error) {
	if v.ChangesErr != nil {
		return nil, v.ChangesErr
	}
	return v.Uncommitted, nil
}

// ChangesBetween records the requested refs and returns Between.
func (v *Vcs) ChangesBetween(_ context.Context, _, fromRef, toRef string) ([]vcs.ChangedFile, error) {
	v.mu.Lock()
	v.refs = append(v.refs, [2]string{fromRef, toRef})
	v.mu.Unlock()

	if v.ChangesErr != nil {
		return nil, v.ChangesErr
	}
	return v.Between, nil
}

// Refs returns the from/to pairs passed to ChangesBetween.
func (v *Vcs) Refs() [][2]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([][2]string(nil), v.refs...)
}

// Provider implements workspace.Provider with a fixed package list.
type Provider struct {
	Packages []workspace.Package
	Err      error
}

func (p *Provider) Metadata(context.Context, string) (*workspace.Graph, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return workspace.NewGraph(p.Packages)
}
