package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/doxindex"
	main "github.com/fwojciec/doxindex/cmd/doxindex"
	"github.com/fwojciec/doxindex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDeps wires mocks that scan one file declaring fene.
func buildDeps(t *testing.T, projects *mock.ProjectService) (*main.Dependencies, *[]*doxindex.Symbol, *doxindex.Table) {
	t.Helper()

	var stored []*doxindex.Symbol
	replaced := &doxindex.Table{}

	deps, _, _ := newDeps(projects, &mock.RecordService{
		ReplaceRecordsFn: func(_ context.Context, _ string, table *doxindex.Table) error {
			*replaced = *table
			return nil
		},
	})
	deps.Tree = &mock.SourceTree{
		WalkFn: func(context.Context, string) ([]*doxindex.SourceEntry, error) {
			return []*doxindex.SourceEntry{
				{Path: "interaction.cpp", Content: []byte("double fene(Atom *a1, Atom *a2) { return 0; }")},
				{Path: "broken.cpp", Content: []byte("")},
			}, nil
		},
	}
	deps.Scanner = &mock.Scanner{
		ScanFn: func(_ context.Context, path string, _ []byte) ([]*doxindex.Symbol, error) {
			if path == "broken.cpp" {
				return nil, errors.New("unexpected end of file")
			}
			return []*doxindex.Symbol{
				{Name: "fene", Kind: doxindex.KindFunction, Args: "(Atom *a1, Atom *a2)", File: path, Definition: true},
			}, nil
		},
	}
	deps.SourceFiles = &mock.SourceFileService{
		FindSourceFilesFn: func(context.Context, doxindex.SourceFileFilter) ([]*doxindex.SourceFile, error) {
			return nil, nil
		},
		CreateSourceFileFn: func(_ context.Context, f *doxindex.SourceFile, _ []byte) error {
			f.ID = "file-" + f.Path
			return nil
		},
	}
	deps.Symbols = &mock.SymbolService{
		CreateSymbolsFn: func(_ context.Context, symbols []*doxindex.Symbol) error {
			stored = append(stored, symbols...)
			return nil
		},
		FindSymbolsFn: func(context.Context, doxindex.SymbolFilter) ([]*doxindex.Symbol, error) {
			return stored, nil
		},
	}
	return deps, &stored, replaced
}

func TestBuildCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates project and indexes its sources", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var created *doxindex.Project
		projects := &mock.ProjectService{
			FindProjectsFn: func(context.Context, doxindex.ProjectFilter) ([]*doxindex.Project, error) {
				return nil, nil
			},
			CreateProjectFn: func(_ context.Context, p *doxindex.Project) error {
				p.ID = "proj-1"
				created = p
				return nil
			},
		}
		deps, stored, table := buildDeps(t, projects)
		stdout := deps.Stdout.(*bytes.Buffer)
		stderr := deps.Stderr.(*bytes.Buffer)

		err := (&main.BuildCmd{Name: "polymer", Dir: dir, Concurrency: 2}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, dir, created.SourcePath)
		assert.Equal(t, doxindex.OriginSource, created.Origin)

		require.Len(t, *stored, 1)
		assert.Equal(t, "proj-1", (*stored)[0].ProjectID)
		assert.Equal(t, "file-interaction.cpp", (*stored)[0].SourceFileID)

		require.Len(t, table.Records, 1)
		assert.Equal(t, "fene", table.Records[0].Key)

		assert.Contains(t, stdout.String(), "Added project")
		assert.Contains(t, stdout.String(), "Scanned 1 files")
		assert.Contains(t, stdout.String(), "1 failed")
		assert.Contains(t, stdout.String(), "Indexed 1 symbols into 1 records")
		assert.Contains(t, stderr.String(), "broken.cpp")
	})

	t.Run("follows a moved source directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var updated *string
		projects := projectsNamed(polymer)
		projects.UpdateProjectFn = func(_ context.Context, id string, upd doxindex.ProjectUpdate) (*doxindex.Project, error) {
			updated = upd.SourcePath
			p := *polymer
			p.SourcePath = *upd.SourcePath
			return &p, nil
		}
		deps, _, _ := buildDeps(t, projects)

		err := (&main.BuildCmd{Name: "polymer", Dir: dir}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, dir, *updated)
	})

	t.Run("refuses imported projects", func(t *testing.T) {
		t.Parallel()

		imported := &doxindex.Project{ID: "proj-2", Name: "eigen", SourcePath: "https://eigen.example.com/docs/", Origin: doxindex.OriginRemote}
		deps, _, _ := buildDeps(t, projectsNamed(imported))
		stderr := deps.Stderr.(*bytes.Buffer)

		err := (&main.BuildCmd{Name: "eigen", Dir: t.TempDir()}).Run(deps)

		assert.Equal(t, doxindex.ECONFLICT, doxindex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "imported")
	})
}
