// Implements a static analysis tool that reports direct fmt printing
// (fmt.Print, fmt.Printf, fmt.Println) outside of package main and test
// files. Structured zap logging is the rule everywhere else in this repo.
package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports raw fmt printing where structured logging is expected.
var Analyzer = &analysis.Analyzer{
	Name: "rawprint",
	Doc:  "reports fmt.Print/Printf/Println usage outside package main and tests",
	Run:  run,
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
	},
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() == "main" {
		return nil, nil
	}

	inspected := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspected.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok || pkg.Name != "fmt" {
			return
		}

		filename := pass.Fset.Position(call.Pos()).Filename
		if strings.HasSuffix(filename, "_test.go") {
			return
		}

		switch sel.Sel.Name {
		case "Print", "Printf", "Println":
			pass.Reportf(call.Pos(), "found fmt.%s, use the zap logger instead", sel.Sel.Name)
		}
	})

	return nil, nil
}

func main() {
	singlechecker.Main(Analyzer)
}
