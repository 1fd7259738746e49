// cmd/tools/handler-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
)

// HandlerData holds data for templates
type HandlerData struct {
	Name        string
	PackageName string
	Category    string
	Intents     []string
	Service     string
	ServiceKey  string
	Entity      string
	Description string
}

var (
	namePattern   = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)
	intentPattern = regexp.MustCompile(`^[a-z]+(\.[a-z_]+)+$`)
)

// services maps the -service flag onto the bundle field it requires.
var services = map[string]string{
	"stands":      "Stands",
	"reference":   "Reference",
	"maintenance": "Maintenance",
}

func newHandlerData(name, category, intents, service, entity, description string) (*HandlerData, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("name %q must be kebab-case, e.g. gate-info", name)
	}
	if category == "" {
		category = strings.SplitN(name, "-", 2)[0]
	}
	field, ok := services[service]
	if !ok {
		return nil, fmt.Errorf("unknown service %q (stands, reference, maintenance)", service)
	}

	var list []string
	for _, in := range strings.Split(intents, ",") {
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		if !intentPattern.MatchString(in) {
			return nil, fmt.Errorf("intent %q must be dotted lower case, e.g. gate.info", in)
		}
		list = append(list, in)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("at least one intent is required")
	}
	if entity == "" {
		entity = category
	}
	if description == "" {
		description = fmt.Sprintf("answers %s queries", strings.Join(list, ", "))
	}

	return &HandlerData{
		Name:        name,
		PackageName: strings.ReplaceAll(name, "-", ""),
		Category:    category,
		Intents:     list,
		Service:     field,
		ServiceKey:  service,
		Entity:      entity,
		Description: description,
	}, nil
}

// generate renders every template into dir/<category>/<name>. Existing files
// are left alone unless force is set.
func generate(root string, data *HandlerData, force bool) ([]string, error) {
	dir := filepath.Join(root, data.Category, data.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, file := range []struct {
		name string
		tmpl string
	}{
		{"config.go", configTemplate},
		{"models.go", modelsTemplate},
		{"handler.go", handlerTemplate},
		{"handler_test.go", testTemplate},
	} {
		path := filepath.Join(dir, file.name)
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Printf("skip %s (exists)\n", path)
			continue
		}
		src, err := render(file.name, file.tmpl, data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func render(name, text string, data *HandlerData) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{"quote": func(s string) string {
		return fmt.Sprintf("%q", s)
	}}).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

func main() {
	name := flag.String("name", "", "Handler name (e.g., gate-info)")
	category := flag.String("category", "", "Package directory under internal/handlers (default: first word of name)")
	intents := flag.String("intents", "", "Comma separated intents (e.g., gate.info,gate.details)")
	service := flag.String("service", "stands", "Required service: stands, reference or maintenance")
	entity := flag.String("entity", "", "Primary entity name (default: category)")
	description := flag.String("description", "", "One line description for the handler doc comment")
	out := flag.String("out", "internal/handlers", "Handlers root directory")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	data, err := newHandlerData(*name, *category, *intents, *service, *entity, *description)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	written, err := generate(*out, data, *force)
	if err != nil {
		fmt.Printf("Error generating handler: %v\n", err)
		os.Exit(1)
	}
	for _, p := range written {
		fmt.Printf("wrote %s\n", p)
	}
	fmt.Printf("Add %s to internal/handlers/builtin to register it.\n", data.Name)
}
