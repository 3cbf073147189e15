package exporter

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
)

func init() {
	w := WriterFunc(writeODCS)
	Register("odcs", w)
	Register("odcs-v3.1.0", w)
}

// odcsDocument is the serialized shape of a v3.1.0 data contract. Reference
// targets live in the inline map so arbitrary "#/..." paths can be emitted.
type odcsDocument struct {
	APIVersion       string                    `yaml:"apiVersion"`
	Kind             string                    `yaml:"kind"`
	ID               string                    `yaml:"id"`
	Name             string                    `yaml:"name,omitempty"`
	Version          string                    `yaml:"version"`
	Status           string                    `yaml:"status,omitempty"`
	Domain           string                    `yaml:"domain,omitempty"`
	DataProduct      string                    `yaml:"dataProduct,omitempty"`
	Tenant           string                    `yaml:"tenant,omitempty"`
	Tags             []string                  `yaml:"tags,omitempty"`
	CustomProperties []contract.CustomProperty `yaml:"customProperties,omitempty"`
	Servers          []odcsServer              `yaml:"servers,omitempty"`
	Schema           []odcsSchema              `yaml:"schema"`
	DefRoots         map[string]any            `yaml:",inline"`
}

type odcsServer struct {
	Type    string `yaml:"type,omitempty"`
	Catalog string `yaml:"catalog,omitempty"`
	Schema  string `yaml:"schema,omitempty"`
}

type odcsSchema struct {
	Name                       string                  `yaml:"name"`
	PhysicalName               string                  `yaml:"physicalName,omitempty"`
	Description                string                  `yaml:"description,omitempty"`
	DataGranularityDescription string                  `yaml:"dataGranularityDescription,omitempty"`
	Quality                    []contract.QualityRule  `yaml:"quality,omitempty"`
	Properties                 []odcsProperty          `yaml:"properties"`
}

type odcsProperty struct {
	Name                 string                 `yaml:"name"`
	Ref                  string                 `yaml:"$ref,omitempty"`
	BusinessName         string                 `yaml:"businessName,omitempty"`
	LogicalType          string                 `yaml:"logicalType,omitempty"`
	PhysicalType         string                 `yaml:"physicalType,omitempty"`
	Description          string                 `yaml:"description,omitempty"`
	Required             bool                   `yaml:"required,omitempty"`
	PrimaryKey           bool                   `yaml:"primaryKey,omitempty"`
	PrimaryKeyPosition   int                    `yaml:"primaryKeyPosition,omitempty"`
	Unique               bool                   `yaml:"unique,omitempty"`
	Partitioned          bool                   `yaml:"partitioned,omitempty"`
	PartitionKeyPosition int                    `yaml:"partitionKeyPosition,omitempty"`
	Clustered            bool                   `yaml:"clustered,omitempty"`
	ClusterKeyPosition   int                    `yaml:"clusterKeyPosition,omitempty"`
	Classification       string                 `yaml:"classification,omitempty"`
	CriticalDataElement  bool                   `yaml:"criticalDataElement,omitempty"`
	References           string                 `yaml:"references,omitempty"`
	Enum                 []string               `yaml:"enum,omitempty"`
	Examples             []any                  `yaml:"examples,omitempty"`
	Tags                 []string               `yaml:"tags,omitempty"`
	Quality              []contract.QualityRule `yaml:"quality,omitempty"`
	CustomProperties     map[string]any         `yaml:"customProperties,omitempty"`
}

// writeODCS renders t as a v3.1.0 data contract with array-form properties.
// Flattened column names are written verbatim; children that a textual
// STRUCT type re-derives on import are skipped so the column set is stable
// across an import, export, import cycle. Every local reference target gets
// a definition stub, so emitted $refs always resolve.
func writeODCS(t *contract.Table) ([]byte, error) {
	doc := odcsDocument{
		APIVersion:       "v3.1.0",
		Kind:             "DataContract",
		ID:               t.ID.String(),
		Name:             t.Name,
		Version:          metaString(t, "version"),
		Status:           metaString(t, "status"),
		Domain:           t.Domain,
		DataProduct:      t.DataProduct,
		Tenant:           metaString(t, "tenant"),
		Tags:             t.Tags,
		CustomProperties: resynthesizeProperties(t),
	}
	if doc.Version == "" {
		doc.Version = "1.0.0"
	}
	if t.DatabaseType != "" || t.CatalogName != "" || t.SchemaName != "" {
		doc.Servers = []odcsServer{{
			Type:    t.DatabaseType,
			Catalog: t.CatalogName,
			Schema:  t.SchemaName,
		}}
	}

	schema := odcsSchema{
		Name:                       t.Name,
		PhysicalName:               metaString(t, "physicalName"),
		Description:                t.Description,
		DataGranularityDescription: metaString(t, "dataGranularityDescription"),
		Quality:                    t.Quality,
	}

	defs := make(map[string]any)
	cols := t.Columns
	for i := 0; i < len(cols); i++ {
		col := cols[i]
		schema.Properties = append(schema.Properties, propertyFromColumn(col, defs))
		if importer.IsNestedTypeString(col.DataType) {
			// the importer re-derives these children from the type string
			prefix := col.Name + "."
			for i+1 < len(cols) && strings.HasPrefix(cols[i+1].Name, prefix) {
				i++
			}
		}
	}
	doc.Schema = []odcsSchema{schema}
	if len(defs) > 0 {
		doc.DefRoots = defs
	}
	return yaml.Marshal(doc)
}

// propertyFromColumn renders one column, splitting its relationship edges
// into a $ref (local definition paths) and a references clause (table
// pointers). Stubs added to defs keep every emitted $ref resolvable.
func propertyFromColumn(col contract.Column, defs map[string]any) odcsProperty {
	p := odcsProperty{
		Name:                 col.Name,
		BusinessName:         col.BusinessName,
		LogicalType:          col.DataType,
		PhysicalType:         col.PhysicalType,
		Description:          col.Description,
		Required:             !col.Nullable,
		PrimaryKey:           col.PrimaryKey,
		PrimaryKeyPosition:   col.PrimaryKeyPosition,
		Unique:               col.Unique,
		Partitioned:          col.Partitioned,
		PartitionKeyPosition: col.PartitionKeyPosition,
		Clustered:            col.Clustered,
		ClusterKeyPosition:   col.ClusterKeyPosition,
		Classification:       col.Classification,
		CriticalDataElement:  col.CriticalDataElement,
		Enum:                 col.EnumValues,
		Examples:             col.Examples,
		Tags:                 col.Tags,
		Quality:              col.Quality,
		CustomProperties:     col.CustomProperties,
	}
	for _, rel := range col.Relationships {
		if p.Ref == "" && strings.Contains(rel.To, "/") {
			p.Ref = "#/" + rel.To
			addDefinitionStub(defs, rel.To, col.DataType)
			continue
		}
		if p.References == "" {
			p.References = rel.To
		}
	}
	return p
}

// addDefinitionStub plants {logicalType: typ} at the given slash path,
// creating intermediate mappings as needed. An existing definition is left
// alone: the first referencing column names the type.
func addDefinitionStub(defs map[string]any, path, typ string) {
	segs := strings.Split(path, "/")
	node := defs
	for _, seg := range segs[:len(segs)-1] {
		next, ok := node[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[seg] = next
		}
		node = next
	}
	last := segs[len(segs)-1]
	if _, ok := node[last]; ok {
		return
	}
	if typ == "" {
		typ = "OBJECT"
	}
	node[last] = map[string]any{"logicalType": typ}
}

// resynthesizeProperties rebuilds the custom-property entries the importer
// promoted onto first-class fields, followed by the passthrough entries.
// Re-importing the output promotes them right back.
func resynthesizeProperties(t *contract.Table) []contract.CustomProperty {
	var props []contract.CustomProperty
	switch len(t.MedallionLayers) {
	case 0:
	case 1:
		props = append(props, contract.CustomProperty{
			Property: "medallionLayer",
			Value:    string(t.MedallionLayers[0]),
		})
	default:
		layers := make([]string, len(t.MedallionLayers))
		for i, l := range t.MedallionLayers {
			layers[i] = string(l)
		}
		props = append(props, contract.CustomProperty{Property: "medallionLayers", Value: layers})
	}
	if t.SCDPattern != "" {
		props = append(props, contract.CustomProperty{
			Property: "scdPattern",
			Value:    string(t.SCDPattern),
		})
	}
	if t.DataVaultClass != "" {
		props = append(props, contract.CustomProperty{
			Property: "dataVaultClassification",
			Value:    string(t.DataVaultClass),
		})
	}
	return append(props, t.CustomProperties...)
}

func metaString(t *contract.Table, key string) string {
	s, _ := t.Metadata[key].(string)
	return s
}
