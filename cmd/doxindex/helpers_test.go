package main_test

import (
	"bytes"
	"context"
	"strings"

	"github.com/fwojciec/doxindex"
	main "github.com/fwojciec/doxindex/cmd/doxindex"
	"github.com/fwojciec/doxindex/mock"
)

const searchF = `var searchData=
[
  ['fene',['fene',['../interaction_8cpp.html#af3536032a069492cf617a36ffecc9013',1,'fene(Atom *a1, Atom *a2):&#160;interaction.cpp'],['../interaction_8h.html#af3536032a069492cf617a36ffecc9013',1,'fene(Atom *a1, Atom *a2):&#160;interaction.cpp']]],
  ['feneexception',['FeneException',['../classFeneException.html',1,'']]],
  ['force_5fcalc_2ecpp',['force_calc.cpp',['../force__calc_8cpp.html',1,'']]]
];
`

func testTable() *doxindex.Table {
	return &doxindex.Table{Records: []*doxindex.Record{
		{Key: "fene", Name: "fene", Refs: []doxindex.Ref{
			{Href: "../interaction_8cpp.html#af3536032a069492cf617a36ffecc9013", Parent: 1, Scope: "fene(Atom *a1, Atom *a2):&#160;interaction.cpp"},
			{Href: "../interaction_8h.html#af3536032a069492cf617a36ffecc9013", Parent: 1, Scope: "fene(Atom *a1, Atom *a2):&#160;interaction.cpp"},
		}},
		{Key: "feneexception", Name: "FeneException", Refs: []doxindex.Ref{
			{Href: "../classFeneException.html", Parent: 1},
		}},
		{Key: "force_5fcalc_2ecpp", Name: "force_calc.cpp", Refs: []doxindex.Ref{
			{Href: "../force__calc_8cpp.html", Parent: 1},
		}},
		{Key: "system", Name: "System", Refs: []doxindex.Ref{
			{Href: "../classSystem.html", Parent: 1},
		}},
	}}
}

// projectsNamed serves a single project.
func projectsNamed(project *doxindex.Project) *mock.ProjectService {
	return &mock.ProjectService{
		FindProjectsFn: func(_ context.Context, filter doxindex.ProjectFilter) ([]*doxindex.Project, error) {
			if filter.Name != nil && *filter.Name != project.Name {
				return nil, nil
			}
			return []*doxindex.Project{project}, nil
		},
	}
}

// recordsOf serves the records of table, honoring key filters.
func recordsOf(table *doxindex.Table) *mock.RecordService {
	return &mock.RecordService{
		FindRecordsFn: func(_ context.Context, filter doxindex.RecordFilter) ([]*doxindex.Record, error) {
			var out []*doxindex.Record
			for _, rec := range table.Records {
				if filter.Key != nil && rec.Key != *filter.Key {
					continue
				}
				if filter.KeyPrefix != nil && !strings.HasPrefix(rec.Key, *filter.KeyPrefix) {
					continue
				}
				out = append(out, rec)
			}
			return out, nil
		},
		CountRecordsFn: func(context.Context, string) (int, error) {
			return len(table.Records), nil
		},
	}
}

func newDeps(projects doxindex.ProjectService, records doxindex.RecordService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Projects: projects,
		Records:  records,
	}, stdout, stderr
}

var polymer = &doxindex.Project{ID: "proj-1", Name: "polymer", SourcePath: "/src/polymer", Origin: doxindex.OriginSource}
