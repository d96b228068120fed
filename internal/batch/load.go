package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/gravitas-games/robotplanner/internal/ctxlog"
	"github.com/gravitas-games/robotplanner/internal/envfile"
	"github.com/gravitas-games/robotplanner/internal/mapstore"
	"github.com/gravitas-games/robotplanner/pkg/grid"
)

// hclPlanFile represents the top-level structure of a plan file for decoding.
type hclPlanFile struct {
	Maps   []*hclMap   `hcl:"map,block"`
	Routes []*hclRoute `hcl:"route,block"`
}

type hclMap struct {
	Name string `hcl:"name,label"`
	File string `hcl:"file"`
}

type hclRoute struct {
	Name string         `hcl:"name,label"`
	Map  string         `hcl:"map"`
	From hcl.Expression `hcl:"from"`
	To   hcl.Expression `hcl:"to"`
}

// Route is one requested route of a plan.
type Route struct {
	Name  string
	Map   string
	Start grid.Cell
	End   grid.Cell
}

// Plan is a decoded plan file with its maps loaded.
type Plan struct {
	Path   string
	Maps   *mapstore.Store
	Routes []Route
}

// Load parses the plan at path and loads every map it declares.
func Load(ctx context.Context, path string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plan", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, diags)
	}

	var parsed hclPlanFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode plan %s: %w", path, diags)
	}

	plan := &Plan{Path: path, Maps: mapstore.New()}
	baseDir := filepath.Dir(path)
	for _, m := range parsed.Maps {
		mapPath := m.File
		if !filepath.IsAbs(mapPath) {
			mapPath = filepath.Join(baseDir, mapPath)
		}
		g, err := envfile.Load(mapPath)
		if err != nil {
			return nil, fmt.Errorf("map %q: %w", m.Name, err)
		}
		if _, err := plan.Maps.Add(m.Name, mapPath, g); err != nil {
			return nil, err
		}
		logger.Debug("Plan map loaded", "name", m.Name, "file", mapPath)
	}

	seen := make(map[string]bool, len(parsed.Routes))
	for _, r := range parsed.Routes {
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate route %q in %s", r.Name, path)
		}
		seen[r.Name] = true

		if _, ok := plan.Maps.Get(r.Map); !ok {
			return nil, fmt.Errorf("route %q refers to undeclared map %q", r.Name, r.Map)
		}

		start, diags := decodeCell(r.From)
		if diags.HasErrors() {
			return nil, fmt.Errorf("route %q: %w", r.Name, diags)
		}
		end, diags := decodeCell(r.To)
		if diags.HasErrors() {
			return nil, fmt.Errorf("route %q: %w", r.Name, diags)
		}
		plan.Routes = append(plan.Routes, Route{Name: r.Name, Map: r.Map, Start: start, End: end})
	}

	logger.Debug("Plan loaded", "maps", plan.Maps.Len(), "routes", len(plan.Routes))
	return plan, nil
}

var cellType = cty.List(cty.Number)

// decodeCell reads an [x, y] pair of whole numbers.
func decodeCell(expr hcl.Expression) (grid.Cell, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return grid.Cell{}, diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid coordinate",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		}}
	}

	list, err := convert.Convert(val, cellType)
	if err != nil {
		return grid.Cell{}, invalid(fmt.Sprintf("A coordinate must be a list of two numbers: %s.", err))
	}
	if list.IsNull() || !list.IsWhollyKnown() || list.LengthInt() != 2 {
		return grid.Cell{}, invalid("A coordinate must have exactly two elements, [x, y].")
	}

	var xy []int
	if err := gocty.FromCtyValue(list, &xy); err != nil {
		return grid.Cell{}, invalid(fmt.Sprintf("Coordinates must be whole numbers: %s.", err))
	}
	return grid.Cell{X: xy[0], Y: xy[1]}, nil
}
