//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that names exported by pkg/core are
// shared across multiple packages. Single-use names belong to their consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				if obj := scope.Lookup(name); obj.Exported() {
					coreDefs[obj] = name
				}
			}
			break
		}
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	// name -> set of importing packages
	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"
	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreDefs[obj]; ok {
				usageMap[name][strings.TrimPrefix(p.PkgPath, base)] = true
			}
		}
	}

	for name, importers := range usageMap {
		if isCohesionAllowlisted(name) {
			continue
		}
		switch len(importers) {
		case 0:
			t.Logf("WARNING: Unused core name: %s (consider deleting)", name)
		case 1:
			var user string
			for k := range importers {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move it from pkg/core to %s.", name, user, user)
		}
	}
}

// isCohesionAllowlisted returns true for names allowed to have a single user.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		"RuleOptions": true, // Field type of LintConfig, named for config decoding
	}
	return allowlist[name]
}

// =============================================================================
// PURITY TEST - Core types are re-exported only where allowlisted
// =============================================================================

// TestGovernance_AliasReexports ensures core types are re-exported as aliases
// only by pkg/lint (severities for sniffs) and the CLI config package.
func TestGovernance_AliasReexports(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	allowed := map[string]map[string]bool{
		modulePath + "/pkg/lint":            {"Severity": true},
		modulePath + "/internal/cli/config": {"LintConfig": true, "RuleOptions": true},
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || pkg.Types == nil {
			continue
		}

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !typeName.Exported() || !typeName.IsAlias() {
				continue
			}
			named, ok := types.Unalias(typeName.Type()).(*types.Named)
			if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != modulePath+"/pkg/core" {
				continue
			}
			if !allowed[pkg.PkgPath][name] {
				t.Errorf("PURITY VIOLATION: Package '%s' re-exports core type '%s' as an alias.\n"+
					"   Fix: Use core.%s directly.",
					strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), name, named.Obj().Name())
			}
		}
	}
}
