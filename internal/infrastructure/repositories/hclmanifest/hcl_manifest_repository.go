package hclmanifest

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/manifestio"
)

// ManifestRepository reads and writes HCL manifests, where every top-level
// attribute is a term and deps is a tuple of objects.
type ManifestRepository struct{}

// NewManifestRepository creates a new HCL manifest repository.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

func (it *ManifestRepository) Format() string { return manifestio.FormatHCL }

func (it *ManifestRepository) Extensions() []string { return []string{".hcl"} }

// topLevelItem is an attribute or block with its position in the source.
type topLevelItem struct {
	key   string
	rng   hcl.Range
	attr  *hclsyntax.Attribute
	start int
}

// Read parses the manifest at path, keeping each top-level item verbatim.
func (it *ManifestRepository) Read(path string) (*entities.Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	file, diags := hclsyntax.ParseConfig(src, path, hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %q: %s", path, diags.Error())
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrManifestMalformed, path)
	}

	manifest := &entities.Manifest{Path: path, Format: it.Format()}
	for _, item := range orderedItems(body) {
		raw := src[item.rng.Start.Byte:item.rng.End.Byte]
		manifest.Terms = append(manifest.Terms, entities.Term{Key: item.key, Raw: raw})

		if item.attr == nil {
			continue
		}
		if termErr := decodeTerm(manifest, src, item.attr); termErr != nil {
			return nil, fmt.Errorf("%q: %w", path, termErr)
		}
	}

	return manifest, nil
}

// Write renders the manifest to path with its deps replaced.
func (it *ManifestRepository) Write(
	path string,
	manifest *entities.Manifest,
	deps []entities.DependencySpec,
) error {
	depsTerm, err := encodeDeps(deps)
	if err != nil {
		return err
	}

	terms := make([][]byte, 0, len(manifest.Terms)+1)
	replaced := false
	for _, term := range manifest.Terms {
		if term.Key == entities.DepsKey {
			terms = append(terms, depsTerm)
			replaced = true
			continue
		}
		terms = append(terms, term.Raw)
	}
	if !replaced {
		terms = append(terms, depsTerm)
	}

	return manifestio.WriteAtomic(path, manifestio.Render(terms))
}

func orderedItems(body *hclsyntax.Body) []topLevelItem {
	items := make([]topLevelItem, 0, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		items = append(items, topLevelItem{key: name, rng: attr.SrcRange, attr: attr, start: attr.SrcRange.Start.Byte})
	}
	for _, block := range body.Blocks {
		rng := block.Range()
		items = append(items, topLevelItem{key: block.Type, rng: rng, start: rng.Start.Byte})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].start < items[j].start })
	return items
}

func decodeTerm(manifest *entities.Manifest, src []byte, attr *hclsyntax.Attribute) error {
	switch attr.Name {
	case entities.DepsKey:
		deps, err := decodeDeps(src, attr.Expr)
		if err != nil {
			return err
		}
		manifest.Deps = deps
		manifest.HasDeps = true
	case entities.DepsDirKey:
		value, err := stringValue(attr.Expr)
		if err != nil {
			return fmt.Errorf("%s: %w", attr.Name, err)
		}
		manifest.DepsDir = value
	case entities.SubDirsKey:
		exprs, diags := hcl.ExprList(attr.Expr)
		if diags.HasErrors() {
			return fmt.Errorf("%w: %s: %s", entities.ErrManifestMalformed, attr.Name, diags.Error())
		}
		for _, expr := range exprs {
			value, err := stringValue(expr)
			if err != nil {
				return fmt.Errorf("%s: %w", attr.Name, err)
			}
			manifest.SubDirs = append(manifest.SubDirs, value)
		}
	}
	return nil
}

func decodeDeps(src []byte, expr hcl.Expression) ([]entities.DependencySpec, error) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: deps must be a list: %s", entities.ErrManifestMalformed, diags.Error())
	}

	deps := make([]entities.DependencySpec, 0, len(exprs))
	for _, item := range exprs {
		spec, err := decodeSpec(src, item)
		if err != nil {
			return nil, err
		}
		deps = append(deps, spec)
	}
	return deps, nil
}

func decodeSpec(src []byte, expr hcl.Expression) (entities.DependencySpec, error) {
	var spec entities.DependencySpec

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return spec, fmt.Errorf("%w: dependency must be an object: %s", entities.ErrManifestMalformed, diags.Error())
	}

	for _, pair := range pairs {
		key, err := stringValue(pair.Key)
		if err != nil {
			return spec, err
		}
		switch key {
		case "name":
			if spec.Name, err = stringValue(pair.Value); err != nil {
				return spec, fmt.Errorf("name: %w", err)
			}
		case "version":
			if spec.Version, err = stringValue(pair.Value); err != nil {
				return spec, fmt.Errorf("version: %w", err)
			}
		case "source":
			if spec.Source, err = decodeSource(src, pair.Value); err != nil {
				return spec, err
			}
		default:
			spec.Extras = append(spec.Extras, decodeExtra(src, key, pair.Value))
		}
	}

	if spec.Name == "" {
		return spec, fmt.Errorf("%w: dependency without a name at %s", entities.ErrManifestMalformed, expr.Range())
	}
	return spec, nil
}

func decodeSource(src []byte, expr hcl.Expression) (entities.Source, error) {
	var source entities.Source

	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return source, fmt.Errorf("%w: source must be an object: %s", entities.ErrManifestMalformed, diags.Error())
	}

	for _, pair := range pairs {
		key, err := stringValue(pair.Key)
		if err != nil {
			return source, err
		}
		switch key {
		case "type":
			if source.Type, err = stringValue(pair.Value); err != nil {
				return source, fmt.Errorf("type: %w", err)
			}
		case "url":
			if source.URL, err = stringValue(pair.Value); err != nil {
				return source, fmt.Errorf("url: %w", err)
			}
		case string(entities.RefKindBranch), string(entities.RefKindTag), string(entities.RefKindRef):
			if source.RefKind != "" {
				return source, fmt.Errorf(
					"%w: source has both %s and %s at %s",
					entities.ErrManifestMalformed, source.RefKind, key, pair.Key.Range(),
				)
			}
			if source.Ref, err = stringValue(pair.Value); err != nil {
				return source, fmt.Errorf("%s: %w", key, err)
			}
			source.RefKind = entities.RefKind(key)
		case "options":
			source.Options = &entities.Options{Format: manifestio.FormatHCL, Raw: rawExpr(src, pair.Value)}
		default:
			source.Extras = append(source.Extras, decodeExtra(src, key, pair.Value))
		}
	}

	if source.Type == "" {
		source.Type = entities.SourceTypeGit
	}
	return source, nil
}

// decodeExtra keeps a key deplock does not interpret, expression verbatim.
func decodeExtra(src []byte, key string, expr hcl.Expression) entities.Extra {
	return entities.Extra{
		Key:   key,
		Value: entities.Options{Format: manifestio.FormatHCL, Raw: rawExpr(src, expr)},
	}
}

func rawExpr(src []byte, expr hcl.Expression) []byte {
	rng := expr.Range()
	return append([]byte(nil), src[rng.Start.Byte:rng.End.Byte]...)
}

func stringValue(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("%w: %s", entities.ErrManifestMalformed, diags.Error())
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", fmt.Errorf("%w: expected a string at %s", entities.ErrManifestMalformed, expr.Range())
	}
	return val.AsString(), nil
}

func encodeDeps(deps []entities.DependencySpec) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(entities.DepsKey + " = [\n")
	for _, spec := range deps {
		buf.WriteString("{\n")
		writeString(&buf, "name", spec.Name)
		writeString(&buf, "version", spec.Version)
		buf.WriteString("source = {\n")
		writeString(&buf, "type", spec.Source.Type)
		writeString(&buf, "url", spec.Source.URL)
		if spec.Source.RefKind != "" {
			writeString(&buf, string(spec.Source.RefKind), spec.Source.Ref)
		}
		if spec.Source.Options != nil {
			if err := writeOpaque(&buf, "options", spec.Source.Options); err != nil {
				return nil, fmt.Errorf("dependency %q: %w", spec.Name, err)
			}
		}
		for _, extra := range spec.Source.Extras {
			if err := writeOpaque(&buf, extra.Key, &extra.Value); err != nil {
				return nil, fmt.Errorf("dependency %q: %w", spec.Name, err)
			}
		}
		buf.WriteString("}\n")
		for _, extra := range spec.Extras {
			if err := writeOpaque(&buf, extra.Key, &extra.Value); err != nil {
				return nil, fmt.Errorf("dependency %q: %w", spec.Name, err)
			}
		}
		buf.WriteString("},\n")
	}
	buf.WriteString("]\n")
	return hclwrite.Format(buf.Bytes()), nil
}

func writeString(buf *bytes.Buffer, key, value string) {
	writeKey(buf, key)
	buf.Write(hclwrite.TokensForValue(cty.StringVal(value)).Bytes())
	buf.WriteString("\n")
}

func writeOpaque(buf *bytes.Buffer, key string, value *entities.Options) error {
	raw, err := manifestio.OptionsAsHCL(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	writeKey(buf, key)
	buf.Write(raw)
	buf.WriteString("\n")
	return nil
}

// writeKey quotes keys that are not valid identifiers, such as those read
// from YAML.
func writeKey(buf *bytes.Buffer, key string) {
	if hclsyntax.ValidIdentifier(key) {
		buf.WriteString(key)
	} else {
		buf.Write(hclwrite.TokensForValue(cty.StringVal(key)).Bytes())
	}
	buf.WriteString(" = ")
}
