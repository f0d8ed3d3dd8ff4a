// Command check_boundaries fails when a mental-maps layer imports a package
// outside the set that layer is allowed to depend on.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const modulePath = "mentalmaps"

// layerRule lists what a service layer may import besides the standard
// library and itself. Entries starting with "./" are relative to the service
// root; the rest are module paths.
type layerRule struct {
	layer      string
	mayImport  []string
	thirdParty bool
}

var layerRules = []layerRule{
	{layer: "domain", mayImport: []string{"./domain"}},
	{layer: "ports", mayImport: []string{"./domain", "internal/shared"}},
	{layer: "application", mayImport: []string{"./domain", "./ports", "internal/shared"}},
	{layer: "transport", mayImport: []string{"./domain"}},
}

type finding struct {
	File   string
	Line   int
	Import string
	Reason string
}

func (f finding) String() string {
	if f.Import == "" {
		return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Reason)
	}
	return fmt.Sprintf("%s:%d: %s: %s", f.File, f.Line, f.Import, f.Reason)
}

func main() {
	findings := checkTree("contexts")
	if len(findings) == 0 {
		fmt.Println("layer imports ok")
		return
	}
	for _, f := range findings {
		fmt.Fprintln(os.Stderr, f)
	}
	fmt.Fprintf(os.Stderr, "%d layer import problem(s)\n", len(findings))
	os.Exit(1)
}

// checkTree walks contexts/<context>/<service>/<layer>/... and returns the
// findings sorted by file and line.
func checkTree(root string) []finding {
	var findings []finding
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		slashed := filepath.ToSlash(path)
		segments := strings.Split(slashed, "/")
		if len(segments) < 4 || segments[0] != "contexts" {
			return nil
		}
		service := strings.Join([]string{modulePath, "contexts", segments[1], segments[2]}, "/")
		findings = append(findings, scanFile(path, slashed, service, segments[3])...)
		return nil
	})

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})
	return findings
}

func scanFile(path string, display string, service string, layer string) []finding {
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []finding{{File: display, Line: 1, Reason: "unparseable: " + err.Error()}}
	}

	rule, governed := ruleFor(layer)
	var findings []finding
	for _, spec := range parsed.Imports {
		target, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		line := fset.Position(spec.Pos()).Line
		if within(target, modulePath+"/contexts") && !within(target, service) {
			findings = append(findings, finding{File: display, Line: line, Import: target, Reason: "reaches into another service"})
			continue
		}
		if !governed || stdlib(target) || within(target, service+"/"+layer) {
			continue
		}
		if !rule.permits(service, target) {
			findings = append(findings, finding{File: display, Line: line, Import: target, Reason: layer + " may not depend on it"})
		}
	}
	return findings
}

func ruleFor(layer string) (layerRule, bool) {
	for _, rule := range layerRules {
		if rule.layer == layer {
			return rule, true
		}
	}
	return layerRule{}, false
}

func (r layerRule) permits(service string, target string) bool {
	if !within(target, modulePath) {
		return r.thirdParty
	}
	for _, entry := range r.mayImport {
		base := modulePath + "/" + entry
		if rel, ok := strings.CutPrefix(entry, "./"); ok {
			base = service + "/" + rel
		}
		if within(target, base) {
			return true
		}
	}
	return false
}

func within(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// stdlib treats any path whose first element has no dot as standard library.
func stdlib(path string) bool {
	if within(path, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
