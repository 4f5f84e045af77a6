// Package sqlite provides dependency boundary tests for infra persistence (in-memory + sqlite).
package sqlite

import (
	"go/build"
	"strings"
	"testing"
)

var allowedInternalImports = map[string]struct{}{
	"ocmhub/pkg/domain":                        {},
	"ocmhub/internal/infra/persistence/memory": {},
}

func TestImportsAreDomainOrStdlib(t *testing.T) {
	pkg, err := build.Default.ImportDir(".", 0)
	if err != nil {
		t.Fatalf("import dir: %v", err)
	}
	for _, imp := range pkg.Imports {
		if !strings.HasPrefix(imp, "ocmhub/") {
			continue
		}
		if _, ok := allowedInternalImports[imp]; ok {
			continue
		}
		t.Fatalf("unexpected dependency: %s", imp)
	}
}
