package cpp_test

import (
	"context"
	"os"
	"testing"

	"github.com/fwojciec/doxindex"
	"github.com/fwojciec/doxindex/cpp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, path, src string) []*doxindex.Symbol {
	t.Helper()
	symbols, err := cpp.NewScanner().Scan(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return symbols
}

// find returns the symbols called name, optionally restricted to parent.
func find(symbols []*doxindex.Symbol, name, parent string) []*doxindex.Symbol {
	var out []*doxindex.Symbol
	for _, s := range symbols {
		if s.Name == name && s.Parent == parent {
			out = append(out, s)
		}
	}
	return out
}

func TestScanner_Header(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile("testdata/interaction.h")
	require.NoError(t, err)
	symbols := scan(t, "src/interaction.h", string(src))

	t.Run("file symbol comes first", func(t *testing.T) {
		t.Parallel()

		require.NotEmpty(t, symbols)
		assert.Equal(t, "interaction.h", symbols[0].Name)
		assert.Equal(t, doxindex.KindFile, symbols[0].Kind)
		assert.Equal(t, "src/interaction.h", symbols[0].File)
	})

	t.Run("free function declarations", func(t *testing.T) {
		t.Parallel()

		fene := find(symbols, "fene", "")
		require.Len(t, fene, 1)
		assert.Equal(t, doxindex.KindFunction, fene[0].Kind)
		assert.Equal(t, "(Atom *a1, Atom *a2, const vector< double > *box, const vector< double > *args)", fene[0].Args)
		assert.False(t, fene[0].Definition)
		assert.Equal(t, 23, fene[0].Line)

		assert.Len(t, find(symbols, "slj", ""), 1)
		assert.Len(t, find(symbols, "harmonic", ""), 1)
	})

	t.Run("typedefs are not indexed", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, find(symbols, "force_energy_ptr", ""))
	})

	t.Run("global variable", func(t *testing.T) {
		t.Parallel()

		msg := find(symbols, "err_MSG", "")
		require.Len(t, msg, 1)
		assert.Equal(t, doxindex.KindVariable, msg[0].Kind)
		assert.True(t, msg[0].Definition)
	})

	t.Run("classes and their members", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"Interaction", "FeneException", "SljException"} {
			c := find(symbols, name, "")
			require.Len(t, c, 1, name)
			assert.Equal(t, doxindex.KindClass, c[0].Kind)
		}

		ctor := find(symbols, "Interaction", "Interaction")
		require.Len(t, ctor, 1)
		assert.Equal(t, "()", ctor[0].Args)
		assert.Equal(t, doxindex.KindClass, ctor[0].ParentKind)
		assert.False(t, ctor[0].Definition)

		assert.Len(t, find(symbols, "~Interaction", "Interaction"), 1)

		fe := find(symbols, "force_energy", "Interaction")
		require.Len(t, fe, 1)
		assert.Equal(t, "(Atom *a1, Atom *a2, const vector< double > *box)", fe[0].Args)

		check := find(symbols, "check_force_energy_function", "Interaction")
		require.Len(t, check, 1)
		assert.Equal(t, "() const", check[0].Args)

		what := find(symbols, "what", "FeneException")
		require.Len(t, what, 1)
		assert.Equal(t, "() const throw()", what[0].Args)

		for _, name := range []string{"ind1_", "ind2_", "dist_", "r0_"} {
			v := find(symbols, name, "FeneException")
			require.Len(t, v, 1, name)
			assert.Equal(t, doxindex.KindVariable, v[0].Kind)
		}
		assert.Len(t, find(symbols, "energy_args_", "Interaction"), 1)
	})

	t.Run("function bodies are not scanned", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, find(symbols, "sprintf", ""))
		assert.Empty(t, find(symbols, "my_force_energy_", ""))
	})
}

func TestScanner_Source(t *testing.T) {
	t.Parallel()

	t.Run("definitions carry bodies", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "src/domain_decomp.cpp", `
#include "domain_decomp.h"

vector <int> factorize (const int nprocs) {
	vector <int> factors;
	for (int i = 2; i <= nprocs; ++i) {
		if (nprocs % i == 0) { factors.push_back(i); }
	}
	return factors;
} // factorize ends
`)
		f := find(symbols, "factorize", "")
		require.Len(t, f, 1)
		assert.Equal(t, "(const int nprocs)", f[0].Args)
		assert.True(t, f[0].Definition)
		assert.Equal(t, 4, f[0].Line)
		assert.Empty(t, find(symbols, "factors", ""))
	})

	t.Run("out-of-line member definitions", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "system.cpp", `
System::System () : total_mass_(0) {
	natoms_ = 0;
}

int System::count = 0;

double System::total_mass () const {
	return total_mass_;
}
`)
		ctor := find(symbols, "System", "System")
		require.Len(t, ctor, 1)
		assert.Equal(t, "()", ctor[0].Args)
		assert.True(t, ctor[0].Definition)

		mass := find(symbols, "total_mass", "System")
		require.Len(t, mass, 1)
		assert.Equal(t, "() const", mass[0].Args)

		count := find(symbols, "count", "System")
		require.Len(t, count, 1)
		assert.Equal(t, doxindex.KindVariable, count[0].Kind)
		assert.True(t, count[0].Definition)
	})

	t.Run("namespaces and nested classes", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "misc.h", `
namespace misc {
	void flag_error (const char *msg, const char *file, const int line);
	FILE *mfopen(const char *filename, const char *opt);
}

struct Outer {
	class Inner {
	public:
		int value;
	};
	Inner *inner;
};
`)
		ns := find(symbols, "misc", "")
		require.Len(t, ns, 1)
		assert.Equal(t, doxindex.KindNamespace, ns[0].Kind)

		open := find(symbols, "mfopen", "")
		require.Len(t, open, 1)
		assert.Equal(t, "(const char *filename, const char *opt)", open[0].Args)
		assert.Len(t, find(symbols, "flag_error", ""), 1)

		inner := find(symbols, "Inner", "Outer")
		require.Len(t, inner, 1)
		assert.Equal(t, doxindex.KindClass, inner[0].Kind)
		assert.Equal(t, doxindex.KindStruct, inner[0].ParentKind)

		assert.Len(t, find(symbols, "value", "Outer::Inner"), 1)
		assert.Len(t, find(symbols, "inner", "Outer"), 1)
	})

	t.Run("multiple declarators and externs", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "global.h", `
extern int verbosity;
double a = 1.0, b[3], *c;
map<int, double> lookup;
int table[2] = {1, 2};
`)
		v := find(symbols, "verbosity", "")
		require.Len(t, v, 1)
		assert.False(t, v[0].Definition)

		for _, name := range []string{"a", "b", "c", "lookup", "table"} {
			assert.Len(t, find(symbols, name, ""), 1, name)
		}
		assert.Empty(t, find(symbols, "double", ""))
	})

	t.Run("templates, enums and macros", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "util.h", `
template <class T> T clamp (T v, T lo, T hi);
enum Color { RED, GREEN };
MACRO_CALL(foo);
extern "C" {
	int c_entry (void);
}
`)
		assert.Len(t, find(symbols, "clamp", ""), 1)
		assert.Len(t, find(symbols, "c_entry", ""), 1)
		assert.Empty(t, find(symbols, "RED", ""))
		assert.Empty(t, find(symbols, "MACRO_CALL", ""))
		assert.Empty(t, find(symbols, "T", ""))
	})
}

func TestScanner_TypedefStruct(t *testing.T) {
	t.Parallel()

	t.Run("anonymous struct takes the typedef name", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "src/atom.h", "typedef struct {\n\tdouble pos[3];\n\tdouble force[3];\n} Atom;\n")

		atom := find(symbols, "Atom", "")
		require.Len(t, atom, 1)
		assert.Equal(t, doxindex.KindStruct, atom[0].Kind)
		assert.Equal(t, 1, atom[0].Line)
		assert.Equal(t, "src/atom.h", atom[0].File)

		force := find(symbols, "force", "Atom")
		require.Len(t, force, 1)
		assert.Equal(t, doxindex.KindVariable, force[0].Kind)
		assert.Equal(t, doxindex.KindStruct, force[0].ParentKind)
		assert.Len(t, find(symbols, "pos", "Atom"), 1)
	})

	t.Run("tagged struct and nested typedefs", func(t *testing.T) {
		t.Parallel()

		src := "class Box {\npublic:\n\ttypedef struct cell_s {\n\t\tint n;\n\t} Cell;\n};\n"
		symbols := scan(t, "src/box.h", src)

		cell := find(symbols, "Cell", "Box")
		require.Len(t, cell, 1)
		assert.Equal(t, doxindex.KindStruct, cell[0].Kind)
		assert.Equal(t, doxindex.KindClass, cell[0].ParentKind)
		assert.Len(t, find(symbols, "n", "Box::Cell"), 1)
		assert.Empty(t, find(symbols, "cell_s", "Box"))
	})

	t.Run("unnamed body is dropped", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "src/bad.h", "typedef struct {\n\tint n;\n}")

		require.Len(t, symbols, 1)
		assert.Equal(t, doxindex.KindFile, symbols[0].Kind)
	})
}

func TestScanner_Markdown(t *testing.T) {
	t.Parallel()

	t.Run("atx heading", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "README.md", "# FPAPC5242012\n\nSome text.\n")
		require.Len(t, symbols, 1)
		assert.Equal(t, "FPAPC5242012", symbols[0].Name)
		assert.Equal(t, doxindex.KindPage, symbols[0].Kind)
		assert.Equal(t, "README.md", symbols[0].File)
	})

	t.Run("setext heading", func(t *testing.T) {
		t.Parallel()

		symbols := scan(t, "docs/guide.md", "\nUser Guide\n==========\n")
		require.Len(t, symbols, 1)
		assert.Equal(t, "User Guide", symbols[0].Name)
	})

	t.Run("falls back to the file name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "notes", cpp.PageTitle("notes.md", "no headings here"))
	})
}

func TestScanner_Unsupported(t *testing.T) {
	t.Parallel()

	symbols, err := cpp.NewScanner().Scan(context.Background(), "text.py", []byte("def f(): pass"))
	require.NoError(t, err)
	assert.Empty(t, symbols)
	assert.True(t, cpp.Supports("a/b/force_calc.CPP"))
	assert.False(t, cpp.Supports("a/b/Makefile"))
}

func TestScanner_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cpp.NewScanner().Scan(ctx, "a.h", []byte("int x;"))
	require.ErrorIs(t, err, context.Canceled)
}
