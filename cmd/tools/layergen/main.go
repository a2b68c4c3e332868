// Command layergen emits the layer enumeration boilerplate for a map: a
// typed const block with Index, String and an All helper, satisfying the
// cellmap.Layer contract. Intended for go:generate:
//
//	//go:generate go run github.com/banshee-data/gridmap/cmd/tools/layergen -type TerrainLayer -layers Height,Gradient,Roughness -package terrain -out layers_gen.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"go/token"
	"log"
	"os"
	"strings"
	"text/template"
)

// Config holds the generation inputs.
type Config struct {
	TypeName string
	Package  string
	Layers   []string
}

var layerTemplate = template.Must(template.New("layers").Parse(`// Code generated by layergen. DO NOT EDIT.

package {{.Package}}

import "fmt"

// {{.TypeName}} enumerates the map's layers in declared order.
type {{.TypeName}} int

const (
{{- range $i, $name := .Layers}}
	{{$.TypeName}}{{$name}}{{if eq $i 0}} {{$.TypeName}} = iota{{end}}
{{- end}}
)

// Index returns the layer's dense index.
func (l {{.TypeName}}) Index() int { return int(l) }

// String returns the layer's declared name.
func (l {{.TypeName}}) String() string {
	switch l {
{{- range .Layers}}
	case {{$.TypeName}}{{.}}:
		return "{{.}}"
{{- end}}
	}
	return fmt.Sprintf("{{.TypeName}}(%d)", int(l))
}

// All{{.TypeName}}s returns the declared enumeration in index order.
func All{{.TypeName}}s() []{{.TypeName}} {
	return []{{.TypeName}}{
{{- range .Layers}}
		{{$.TypeName}}{{.}},
{{- end}}
	}
}
`))

// Generate renders and gofmt-formats the layer enumeration source.
func Generate(cfg Config) ([]byte, error) {
	if !token.IsIdentifier(cfg.TypeName) {
		return nil, fmt.Errorf("type name %q is not a valid Go identifier", cfg.TypeName)
	}
	if !token.IsIdentifier(cfg.Package) {
		return nil, fmt.Errorf("package name %q is not a valid Go identifier", cfg.Package)
	}
	if len(cfg.Layers) == 0 {
		return nil, fmt.Errorf("at least one layer name is required")
	}
	seen := make(map[string]bool, len(cfg.Layers))
	for _, name := range cfg.Layers {
		if !token.IsIdentifier(name) {
			return nil, fmt.Errorf("layer name %q is not a valid Go identifier", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate layer name %q", name)
		}
		seen[name] = true
	}

	var buf bytes.Buffer
	if err := layerTemplate.Execute(&buf, cfg); err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return src, nil
}

func main() {
	typeName := flag.String("type", "", "name of the layer type to generate (required)")
	layers := flag.String("layers", "", "comma-separated layer names in index order (required)")
	pkg := flag.String("package", "", "package name for the generated file (required)")
	out := flag.String("out", "", "output path (default stdout)")
	flag.Parse()

	if *typeName == "" || *layers == "" || *pkg == "" {
		flag.Usage()
		os.Exit(2)
	}

	names := strings.Split(*layers, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}

	src, err := Generate(Config{TypeName: *typeName, Package: *pkg, Layers: names})
	if err != nil {
		log.Fatalf("layergen: %v", err)
	}

	if *out == "" {
		os.Stdout.Write(src)
		return
	}
	if err := os.WriteFile(*out, src, 0644); err != nil {
		log.Fatalf("layergen: writing %s: %v", *out, err)
	}
	log.Printf("layergen: wrote %s (%d layers)", *out, len(names))
}
