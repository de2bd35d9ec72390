package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	perrors "github.com/palladiosimulator/pcmuml/pkg/errors"
	"github.com/palladiosimulator/pcmuml/pkg/model"
)

const shopYAML = `
repositories:
  - id: shop
    name: Shop
    interfaces:
      - {id: i-order, name: IOrder}
    components:
      - id: c-order
        name: Order Service
        provided: [{id: r-order, name: Provided_IOrder, interface: i-order}]
      - id: c-web
        name: Web Shop
        required: [{id: r-web, name: Required_IOrder, interface: i-order}]
      - id: c-front
        name: Front
        type: composite
        provided: [{id: r-front, name: Provided_Front, interface: i-order}]
        instances:
          - {id: x-inner, name: Inner Orders, component: c-order}
        connectors:
          - {id: k-del, name: front-orders, type: provided_delegation, outer: r-front, inner: r-order, instance: x-inner}
systems:
  - id: sys
    name: Shop System
    provided: [{id: r-sys, name: IShop, interface: i-order}]
    instances:
      - {id: x-order, name: Orders, component: c-order}
      - {id: x-web, name: Web, component: c-web}
    connectors:
      - {id: k1, name: web-orders, type: assembly, requiring: x-web, required_role: r-web, providing: x-order, provided_role: r-order}
containers:
  - {id: n1, name: AppServer}
allocations:
  - id: alloc
    system: sys
    contexts:
      - {id: a1, instance: x-order, container: n1}
      - {id: a2, instance: x-web, container: n1}
`

const shopJSON = `{
  "repositories": [{
    "id": "shop", "name": "Shop",
    "interfaces": [{"id": "i-order", "name": "IOrder"}],
    "components": [
      {"id": "c-order", "name": "Order Service",
       "provided": [{"id": "r-order", "name": "Provided_IOrder", "interface": "i-order"}]},
      {"id": "c-web", "name": "Web Shop",
       "required": [{"id": "r-web", "name": "Required_IOrder", "interface": "i-order"}]},
      {"id": "c-front", "name": "Front", "type": "composite",
       "provided": [{"id": "r-front", "name": "Provided_Front", "interface": "i-order"}],
       "instances": [{"id": "x-inner", "name": "Inner Orders", "component": "c-order"}],
       "connectors": [{"id": "k-del", "name": "front-orders", "type": "provided_delegation",
                       "outer": "r-front", "inner": "r-order", "instance": "x-inner"}]}
    ]
  }],
  "systems": [{
    "id": "sys", "name": "Shop System",
    "provided": [{"id": "r-sys", "name": "IShop", "interface": "i-order"}],
    "instances": [
      {"id": "x-order", "name": "Orders", "component": "c-order"},
      {"id": "x-web", "name": "Web", "component": "c-web"}
    ],
    "connectors": [{"id": "k1", "name": "web-orders", "type": "assembly",
                    "requiring": "x-web", "required_role": "r-web",
                    "providing": "x-order", "provided_role": "r-order"}]
  }],
  "containers": [{"id": "n1", "name": "AppServer"}],
  "allocations": [{
    "id": "alloc", "system": "sys",
    "contexts": [
      {"id": "a1", "instance": "x-order", "container": "n1"},
      {"id": "a2", "instance": "x-web", "container": "n1"}
    ]
  }]
}`

const shopTOML = `
[[repositories]]
id = "shop"
name = "Shop"

  [[repositories.interfaces]]
  id = "i-order"
  name = "IOrder"

  [[repositories.components]]
  id = "c-order"
  name = "Order Service"

    [[repositories.components.provided]]
    id = "r-order"
    name = "Provided_IOrder"
    interface = "i-order"

  [[repositories.components]]
  id = "c-web"
  name = "Web Shop"

    [[repositories.components.required]]
    id = "r-web"
    name = "Required_IOrder"
    interface = "i-order"

  [[repositories.components]]
  id = "c-front"
  name = "Front"
  type = "composite"

    [[repositories.components.provided]]
    id = "r-front"
    name = "Provided_Front"
    interface = "i-order"

    [[repositories.components.instances]]
    id = "x-inner"
    name = "Inner Orders"
    component = "c-order"

    [[repositories.components.connectors]]
    id = "k-del"
    name = "front-orders"
    type = "provided_delegation"
    outer = "r-front"
    inner = "r-order"
    instance = "x-inner"

[[systems]]
id = "sys"
name = "Shop System"

  [[systems.provided]]
  id = "r-sys"
  name = "IShop"
  interface = "i-order"

  [[systems.instances]]
  id = "x-order"
  name = "Orders"
  component = "c-order"

  [[systems.instances]]
  id = "x-web"
  name = "Web"
  component = "c-web"

  [[systems.connectors]]
  id = "k1"
  name = "web-orders"
  type = "assembly"
  requiring = "x-web"
  required_role = "r-web"
  providing = "x-order"
  provided_role = "r-order"

[[containers]]
id = "n1"
name = "AppServer"

[[allocations]]
id = "alloc"
system = "sys"

  [[allocations.contexts]]
  id = "a1"
  instance = "x-order"
  container = "n1"

  [[allocations.contexts]]
  id = "a2"
  instance = "x-web"
  container = "n1"
`

func mustRead(t *testing.T, src string, format Format, opts ...Option) *model.Bundle {
	t.Helper()
	b, err := ReadBundle(strings.NewReader(src), format, opts...)
	if err != nil {
		t.Fatalf("ReadBundle(%s) error = %v", format, err)
	}
	return b
}

func TestReadBundleResolvesReferences(t *testing.T) {
	b := mustRead(t, shopYAML, FormatYAML, WithURI("platform:/resource/shop/shop.yaml"))

	if len(b.Repositories) != 1 || len(b.Systems) != 1 || len(b.Containers) != 1 || len(b.Allocations) != 1 {
		t.Fatalf("bundle sizes = %d/%d/%d/%d, want 1/1/1/1",
			len(b.Repositories), len(b.Systems), len(b.Containers), len(b.Allocations))
	}

	repo := b.Repositories[0]
	if got := repo.Location(); got != "platform:/resource/shop/shop.yaml#shop" {
		t.Errorf("Location() = %q", got)
	}
	if len(repo.Components) != 3 {
		t.Fatalf("len(Components) = %d, want 3", len(repo.Components))
	}
	order, ok := repo.Components[0].(*model.BasicComponent)
	if !ok {
		t.Fatalf("Components[0] = %T, want *model.BasicComponent", repo.Components[0])
	}
	if order.Repository() != repo {
		t.Error("component repository back-reference not set")
	}
	if order.Provided[0].InterfaceID != "i-order" {
		t.Errorf("InterfaceID = %q, want i-order", order.Provided[0].InterfaceID)
	}

	front, ok := repo.Components[2].(*model.CompositeComponent)
	if !ok {
		t.Fatalf("Components[2] = %T, want *model.CompositeComponent", repo.Components[2])
	}
	if front.Instances[0].Component != order {
		t.Error("composite instance does not point at Order Service")
	}
	del, ok := front.Connectors[0].(*model.ProvidedDelegationConnector)
	if !ok {
		t.Fatalf("Connectors[0] = %T, want delegation", front.Connectors[0])
	}
	if del.Outer != front.Provided[0] || del.Inner != order.Provided[0] || del.Instance != front.Instances[0] {
		t.Errorf("delegation not wired: %+v", del)
	}

	sys := b.Systems[0]
	asm, ok := sys.Connectors[0].(*model.AssemblyConnector)
	if !ok {
		t.Fatalf("system connector = %T, want assembly", sys.Connectors[0])
	}
	if asm.Requiring != sys.Instances[1] || asm.Providing != sys.Instances[0] {
		t.Error("assembly endpoints not wired to system instances")
	}
	if asm.ProvidedRole != order.Provided[0] {
		t.Error("assembly provided role not wired")
	}

	alloc := b.Allocations[0]
	if alloc.System != sys {
		t.Error("allocation system not wired")
	}
	for _, ctx := range alloc.Contexts {
		if !ctx.Valid() || ctx.Container != b.Containers[0] {
			t.Errorf("context %s not wired: %+v", ctx.ID, ctx)
		}
	}
}

func TestReadBundleFormatsAgree(t *testing.T) {
	var want bytes.Buffer
	if err := WriteBundle(&want, mustRead(t, shopYAML, FormatYAML), FormatJSON); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format Format
		src    string
	}{
		{FormatJSON, shopJSON},
		{FormatTOML, shopTOML},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var got bytes.Buffer
			if err := WriteBundle(&got, mustRead(t, tt.src, tt.format), FormatJSON); err != nil {
				t.Fatal(err)
			}
			if got.String() != want.String() {
				t.Errorf("%s bundle differs from YAML bundle:\n%s\nwant\n%s", tt.format, got.String(), want.String())
			}
		})
	}
}

func TestWriteBundleRoundTrip(t *testing.T) {
	original := mustRead(t, shopYAML, FormatYAML)

	var want bytes.Buffer
	if err := WriteBundle(&want, original, FormatJSON); err != nil {
		t.Fatal(err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			var encoded bytes.Buffer
			if err := WriteBundle(&encoded, original, format); err != nil {
				t.Fatalf("WriteBundle() error = %v", err)
			}
			back := mustRead(t, encoded.String(), format)

			var got bytes.Buffer
			if err := WriteBundle(&got, back, FormatJSON); err != nil {
				t.Fatal(err)
			}
			if got.String() != want.String() {
				t.Errorf("round trip through %s changed the bundle:\n%s\nwant\n%s", format, got.String(), want.String())
			}
		})
	}
}

func TestReadBundleErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code perrors.Code
	}{
		{
			name: "malformed",
			src:  "repositories: [",
			code: perrors.ErrCodeInvalidFormat,
		},
		{
			name: "unknown component",
			src:  "systems: [{id: s, instances: [{id: x, component: nope}]}]",
			code: perrors.ErrCodeUnknownReference,
		},
		{
			name: "duplicate id",
			src:  "containers: [{id: n1}, {id: n1}]",
			code: perrors.ErrCodeDuplicateID,
		},
		{
			name: "duplicate id across kinds",
			src:  "containers: [{id: same}]\nsystems: [{id: same}]",
			code: perrors.ErrCodeDuplicateID,
		},
		{
			name: "unknown component type",
			src:  "repositories: [{components: [{id: c, type: mystery}]}]",
			code: perrors.ErrCodeInvalidModel,
		},
		{
			name: "basic with instances",
			src:  "repositories: [{components: [{id: c, instances: [{id: x, component: c}]}]}]",
			code: perrors.ErrCodeInvalidModel,
		},
		{
			name: "unknown connector type",
			src:  "systems: [{id: s, connectors: [{id: k, type: wire}]}]",
			code: perrors.ErrCodeInvalidModel,
		},
		{
			name: "unknown role",
			src:  "systems: [{id: s, connectors: [{id: k, type: assembly, provided_role: ghost}]}]",
			code: perrors.ErrCodeUnknownReference,
		},
		{
			name: "unknown system",
			src:  "allocations: [{id: a, system: ghost}]",
			code: perrors.ErrCodeUnknownReference,
		},
		{
			name: "unknown container",
			src:  "allocations: [{id: a, contexts: [{id: c, container: ghost}]}]",
			code: perrors.ErrCodeUnknownReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBundle(strings.NewReader(tt.src), FormatYAML)
			if !perrors.Is(err, tt.code) {
				t.Errorf("ReadBundle() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadBundleReferenceError(t *testing.T) {
	src := "systems: [{id: s, instances: [{id: x, component: nope}]}]"
	_, err := ReadBundle(strings.NewReader(src), FormatYAML)

	var ref *perrors.ReferenceError
	if !errors.As(err, &ref) {
		t.Fatalf("error = %v, want *ReferenceError", err)
	}
	if ref.From != "x" || ref.Field != "component" || ref.To != "nope" {
		t.Errorf("ReferenceError = %+v", ref)
	}
}

func TestReadBundleScopesInstances(t *testing.T) {
	src := `
repositories: [{components: [{id: c}]}]
systems:
  - id: s1
    instances: [{id: x1, component: c}]
  - id: s2
    instances: [{id: x2, component: c}]
    connectors: [{id: k, type: assembly, requiring: x1}]
`
	_, err := ReadBundle(strings.NewReader(src), FormatYAML)
	if !perrors.Is(err, perrors.ErrCodeUnknownReference) {
		t.Errorf("error = %v, want UNKNOWN_REFERENCE for instance of another system", err)
	}
}

func TestReadBundleKeepsDanglingInterface(t *testing.T) {
	src := "repositories: [{components: [{id: c, provided: [{id: r, interface: missing}]}]}]"
	b := mustRead(t, src, FormatYAML)
	roles := b.Repositories[0].Components[0].ProvidedRoles()
	if len(roles) != 1 || roles[0].InterfaceID != "missing" {
		t.Errorf("roles = %+v, want one role referencing missing", roles)
	}
}

func TestReadBundleGeneratesIDs(t *testing.T) {
	n := 0
	gen := func() string {
		n++
		return "gen-" + strconv.Itoa(n)
	}

	b := mustRead(t, "containers: [{name: A}, {name: B}]", FormatYAML, WithIDGenerator(gen))
	if b.Containers[0].ID != "gen-1" || b.Containers[1].ID != "gen-2" {
		t.Errorf("ids = %q, %q, want gen-1, gen-2", b.Containers[0].ID, b.Containers[1].ID)
	}

	b = mustRead(t, "containers: [{name: A}]", FormatYAML)
	if len(b.Containers[0].ID) != 36 {
		t.Errorf("generated id = %q, want a UUID", b.Containers[0].ID)
	}
}

func TestReadBundleEmpty(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		b := mustRead(t, "", format)
		if !b.Empty() {
			t.Errorf("%s: bundle = %+v, want empty", format, b)
		}
	}
}

func TestWriteBundleErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBundle(&buf, nil, FormatJSON); !perrors.Is(err, perrors.ErrCodeNilModel) {
		t.Errorf("WriteBundle(nil) error = %v, want NIL_MODEL", err)
	}
	if err := WriteBundle(&buf, &model.Bundle{}, Format("xml")); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("WriteBundle(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "shop")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(project, "shop.yaml")
	if err := os.WriteFile(path, []byte(shopYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := ImportFile(path, WithWorkspace(dir))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if got, want := b.Systems[0].URI, "platform:/resource/shop/shop.yaml"; got != want {
		t.Errorf("URI = %q, want %q", got, want)
	}

	b, err = ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if got := b.Repositories[0].URI; !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, "/shop/shop.yaml") {
		t.Errorf("URI = %q, want file URI", got)
	}

	b, err = ImportFile(path, WithURI("urn:shop"))
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if got := b.Allocations[0].URI; got != "urn:shop" {
		t.Errorf("URI = %q, want urn:shop", got)
	}
}

func TestImportFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code perrors.Code
	}{
		{"missing file", filepath.Join(dir, "none.json"), perrors.ErrCodeFileNotFound},
		{"unsupported extension", filepath.Join(dir, "shop.xmi"), perrors.ErrCodeInvalidFormat},
		{"empty path", "", perrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportFile(tt.path)
			if !perrors.Is(err, tt.code) {
				t.Errorf("ImportFile(%q) error = %v, want code %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestExportFile(t *testing.T) {
	b := mustRead(t, shopYAML, FormatYAML)
	path := filepath.Join(t.TempDir(), "out.toml")

	if err := ExportFile(b, path); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}
	back, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}
	if len(back.Repositories[0].Components) != 3 {
		t.Errorf("components = %d, want 3", len(back.Repositories[0].Components))
	}
}

func TestLocation(t *testing.T) {
	ws := t.TempDir()

	tests := []struct {
		name      string
		path      string
		workspace string
		want      string
	}{
		{"inside workspace", filepath.Join(ws, "proj", "a.json"), ws, "platform:/resource/proj/a.json"},
		{"workspace itself", ws, ws, "file://" + filepath.ToSlash(ws)},
		{"outside workspace", filepath.Join(filepath.Dir(ws), "other.json"), ws, "file://" + filepath.ToSlash(filepath.Join(filepath.Dir(ws), "other.json"))},
		{"no workspace", filepath.Join(ws, "a.json"), "", "file://" + filepath.ToSlash(filepath.Join(ws, "a.json"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Location(tt.path, tt.workspace); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YML", FormatYAML, false},
		{"toml", FormatTOML, false},
		{"application/json; charset=utf-8", FormatJSON, false},
		{"application/x-yaml", FormatYAML, false},
		{"text/plain", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"dir/a.YAML", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.toml", FormatTOML},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v, want %q", tt.path, got, err, tt.want)
		}
	}
}
