package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Driver packages are reached through Open and the Store interface. Only the
// package that owns the factory may import them, and only internal/core may
// import the snapshot mirrors.
var driverOwners = map[string]string{
	"ocmhub/internal/infra/blob":        "ocmhub/internal/blob",
	"ocmhub/internal/infra/persistence": "ocmhub/internal/core",
}

func TestDriverPackagesOnlyImportedByOwners(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "ocmhub/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	found := map[string]bool{}
	for _, pkg := range pkgs {
		for driver, owner := range driverOwners {
			if underPath(pkg.PkgPath, driver) || underPath(pkg.PkgPath, owner) {
				continue
			}
			for imp := range pkg.Imports {
				if underPath(imp, driver) {
					found[pkg.PkgPath+" -> "+imp] = true
				}
			}
		}
	}

	var lines []string
	for l := range found {
		lines = append(lines, l)
	}
	sort.Strings(lines)
	for _, l := range lines {
		t.Errorf("driver imported outside its owner: %s", l)
	}
}

func underPath(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
