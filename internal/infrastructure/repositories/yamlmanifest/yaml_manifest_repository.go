package yamlmanifest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/deplock/internal/domain/entities"
	"github.com/rios0rios0/deplock/internal/infrastructure/repositories/manifestio"
)

const (
	strTag = "!!str"
	indent = 2
)

// ManifestRepository reads and writes YAML manifests.
type ManifestRepository struct{}

// NewManifestRepository creates a new YAML manifest repository.
func NewManifestRepository() *ManifestRepository {
	return &ManifestRepository{}
}

func (it *ManifestRepository) Format() string { return manifestio.FormatYAML }

func (it *ManifestRepository) Extensions() []string { return []string{".yaml", ".yml"} }

// Read parses the manifest at path into its ordered top-level terms.
func (it *ManifestRepository) Read(path string) (*entities.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	var doc yaml.Node
	if unmarshalErr := yaml.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, unmarshalErr)
	}

	manifest := &entities.Manifest{Path: path, Format: it.Format()}
	if len(doc.Content) == 0 {
		return manifest, nil // empty file
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %q: top level must be a mapping", entities.ErrManifestMalformed, path)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		raw, encodeErr := encodeTerm(key, value)
		if encodeErr != nil {
			return nil, fmt.Errorf("failed to encode %q in %q: %w", key.Value, path, encodeErr)
		}
		manifest.Terms = append(manifest.Terms, entities.Term{Key: key.Value, Raw: raw})

		if termErr := decodeTerm(manifest, key.Value, value); termErr != nil {
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

func decodeTerm(manifest *entities.Manifest, key string, value *yaml.Node) error {
	switch key {
	case entities.DepsKey:
		deps, err := decodeDeps(value)
		if err != nil {
			return err
		}
		manifest.Deps = deps
		manifest.HasDeps = true
	case entities.DepsDirKey:
		if err := value.Decode(&manifest.DepsDir); err != nil {
			return fmt.Errorf("%w: %s: %w", entities.ErrManifestMalformed, key, err)
		}
	case entities.SubDirsKey:
		if err := value.Decode(&manifest.SubDirs); err != nil {
			return fmt.Errorf("%w: %s: %w", entities.ErrManifestMalformed, key, err)
		}
	}
	return nil
}

func decodeDeps(value *yaml.Node) ([]entities.DependencySpec, error) {
	if value.Tag == "!!null" {
		return nil, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: deps must be a list (line %d)", entities.ErrManifestMalformed, value.Line)
	}

	deps := make([]entities.DependencySpec, 0, len(value.Content))
	for _, item := range value.Content {
		spec, err := decodeSpec(item)
		if err != nil {
			return nil, err
		}
		deps = append(deps, spec)
	}
	return deps, nil
}

func decodeSpec(node *yaml.Node) (entities.DependencySpec, error) {
	var spec entities.DependencySpec
	if node.Kind != yaml.MappingNode {
		return spec, fmt.Errorf("%w: dependency must be a mapping (line %d)", entities.ErrManifestMalformed, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "name":
			spec.Name = value.Value
		case "version":
			spec.Version = value.Value
		case "source":
			source, err := decodeSource(value)
			if err != nil {
				return spec, err
			}
			spec.Source = source
		default:
			extra, err := decodeExtra(key, value)
			if err != nil {
				return spec, err
			}
			spec.Extras = append(spec.Extras, extra)
		}
	}

	if spec.Name == "" {
		return spec, fmt.Errorf("%w: dependency without a name (line %d)", entities.ErrManifestMalformed, node.Line)
	}
	return spec, nil
}

func decodeSource(node *yaml.Node) (entities.Source, error) {
	var source entities.Source
	if node.Kind != yaml.MappingNode {
		return source, fmt.Errorf("%w: source must be a mapping (line %d)", entities.ErrManifestMalformed, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "type":
			source.Type = value.Value
		case "url":
			source.URL = value.Value
		case string(entities.RefKindBranch), string(entities.RefKindTag), string(entities.RefKindRef):
			if source.RefKind != "" {
				return source, fmt.Errorf(
					"%w: source has both %s and %s (line %d)",
					entities.ErrManifestMalformed, source.RefKind, key.Value, key.Line,
				)
			}
			source.RefKind = entities.RefKind(key.Value)
			source.Ref = value.Value
		case "options":
			raw, err := encodeNode(value)
			if err != nil {
				return source, err
			}
			source.Options = &entities.Options{Format: manifestio.FormatYAML, Raw: raw}
		default:
			extra, err := decodeExtra(key, value)
			if err != nil {
				return source, err
			}
			source.Extras = append(source.Extras, extra)
		}
	}

	if source.Type == "" {
		source.Type = entities.SourceTypeGit
	}
	return source, nil
}

// decodeExtra keeps a key deplock does not interpret, value verbatim.
func decodeExtra(key, value *yaml.Node) (entities.Extra, error) {
	raw, err := encodeNode(value)
	if err != nil {
		return entities.Extra{}, err
	}
	return entities.Extra{
		Key:   key.Value,
		Value: entities.Options{Format: manifestio.FormatYAML, Raw: raw},
	}, nil
}

func encodeDeps(deps []entities.DependencySpec) ([]byte, error) {
	list := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, spec := range deps {
		item, err := specNode(spec)
		if err != nil {
			return nil, err
		}
		list.Content = append(list.Content, item)
	}
	return encodeTerm(strNode(entities.DepsKey), list)
}

func specNode(spec entities.DependencySpec) (*yaml.Node, error) {
	source := mappingNode(
		"type", strNode(spec.Source.Type),
		"url", strNode(spec.Source.URL),
	)
	if spec.Source.RefKind != "" {
		source.Content = append(source.Content, strNode(string(spec.Source.RefKind)), strNode(spec.Source.Ref))
	}
	if spec.Source.Options != nil {
		options, err := manifestio.OptionsAsYAML(spec.Source.Options)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", spec.Name, err)
		}
		source.Content = append(source.Content, strNode("options"), options)
	}
	if err := appendExtras(source, spec.Source.Extras); err != nil {
		return nil, fmt.Errorf("dependency %q: %w", spec.Name, err)
	}

	node := mappingNode(
		"name", strNode(spec.Name),
		"version", strNode(spec.Version),
		"source", source,
	)
	if err := appendExtras(node, spec.Extras); err != nil {
		return nil, fmt.Errorf("dependency %q: %w", spec.Name, err)
	}
	return node, nil
}

func appendExtras(node *yaml.Node, extras []entities.Extra) error {
	for _, extra := range extras {
		value, err := manifestio.OptionsAsYAML(&extra.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", extra.Key, err)
		}
		node.Content = append(node.Content, strNode(extra.Key), value)
	}
	return nil
}

func mappingNode(pairs ...interface{}) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		node.Content = append(node.Content, strNode(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return node
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: value}
}

// encodeTerm encodes a single top-level "key: value" entry.
func encodeTerm(key, value *yaml.Node) ([]byte, error) {
	return encodeNode(&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{key, value}})
}

func encodeNode(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}
